package services

import (
	"time"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/upstream"
)

// Report is the envelope every report page renders. Warnings list the
// dependencies that failed; the page still renders with what loaded.
type Report[R any, S any] struct {
	Rows        []R               `json:"rows"`
	Summary     S                 `json:"summary"`
	Warnings    []string          `json:"warnings"`
	Pagination  domain.Pagination `json:"pagination"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Query carries paging for a report. All skips paging (exports).
type Query struct {
	Page     int
	PageSize int
	All      bool
}

// TargetSource provides monthly sales targets per staff member.
type TargetSource interface {
	TargetsForMonth(year, month int) ([]models.SalesTarget, error)
}

// ReportsService builds every report page from one snapshot per call.
type ReportsService struct {
	Loader  Loader
	Targets TargetSource
	Replies FeedbackWriter
	Now     func() time.Time

	// Business placeholders without a documented source.
	AssumedAchievementRate float64
	DaysToSellFallback     int
}

func (s ReportsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s ReportsService) daysFallback() int {
	if s.DaysToSellFallback > 0 {
		return s.DaysToSellFallback
	}
	return 30
}

func (s ReportsService) achievementRate() float64 {
	if s.AssumedAchievementRate > 0 {
		return s.AssumedAchievementRate
	}
	return 0.85
}

// finish sorts have already happened; this applies paging and wraps rows.
func finish[R any, S any](rows []R, summary S, q Query, warnings []string, now time.Time) Report[R, S] {
	if warnings == nil {
		warnings = []string{}
	}
	if rows == nil {
		rows = []R{}
	}
	if q.All {
		return Report[R, S]{
			Rows:        rows,
			Summary:     summary,
			Warnings:    warnings,
			Pagination:  domain.Pagination{Page: 1, PageSize: len(rows), Total: len(rows), TotalPages: 1},
			GeneratedAt: now,
		}
	}
	page, meta := aggregate.Paginate(rows, q.Page, q.PageSize)
	return Report[R, S]{
		Rows:        page,
		Summary:     summary,
		Warnings:    warnings,
		Pagination:  meta,
		GeneratedAt: now,
	}
}

// agencyResolver resolves an agency id to its display name.
func agencyResolver(agencies []models.Agency) func(int64) (models.Agency, string) {
	lookup := aggregate.Lookup(agencies, func(a models.Agency) int64 { return a.ID })
	return func(id int64) (models.Agency, string) {
		a, ok := lookup(id)
		return a, aggregate.NameOr(ok, a.Name)
	}
}

// writeFailure maps a failed write-back: a 404 means the record is gone,
// anything else is the remote service's fault.
func writeFailure(service, resource string, err error) error {
	if upstream.IsNotFound(err) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return domain.UpstreamError{Service: service, Err: err}
}
