package services

import (
	"context"
	"strings"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

// FeedbackWriter posts a reply back to the order service.
type FeedbackWriter interface {
	ReplyFeedback(ctx context.Context, id int64, reply, status string) error
}

type FeedbackRow struct {
	AgencyID       int64  `json:"agencyId"`
	AgencyName     string `json:"agencyName"`
	Total          int    `json:"total"`
	Pending        int    `json:"pending"`
	Processing     int    `json:"processing"`
	Resolved       int    `json:"resolved"`
	Closed         int    `json:"closed"`
	ResolutionRate int    `json:"resolutionRate"`
}

type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type FeedbackSummary struct {
	Total          int            `json:"total"`
	ResolutionRate int            `json:"resolutionRate"`
	ByStatus       map[string]int `json:"byStatus"`
	ByType         []CountItem    `json:"byType"`
}

// Feedbacks ranks agencies by open (pending) feedback, most first.
func (s ReportsService) Feedbacks(ctx context.Context, q Query) Report[FeedbackRow, FeedbackSummary] {
	snap := s.Loader.Load(ctx, CollFeedbacks, CollAgencies)
	rows, summary := FeedbackRows(snap)
	return finish(rows, summary, q, snap.Warnings, s.now())
}

// FeedbackRows treats resolved and closed as done when computing rates.
func FeedbackRows(snap Snapshot) ([]FeedbackRow, FeedbackSummary) {
	agency := agencyResolver(snap.Agencies)

	groups := aggregate.GroupBy(snap.Feedbacks, func(f models.Feedback) int64 { return f.AgencyID })
	rows := make([]FeedbackRow, 0, len(groups))
	for _, g := range groups {
		_, name := agency(g.Key)
		row := FeedbackRow{AgencyID: g.Key, AgencyName: name, Total: len(g.Items)}
		for _, f := range g.Items {
			switch {
			case f.HasStatus(models.FeedbackPending):
				row.Pending++
			case f.HasStatus(models.FeedbackProcessing):
				row.Processing++
			case f.HasStatus(models.FeedbackResolved):
				row.Resolved++
			case f.HasStatus(models.FeedbackClosed):
				row.Closed++
			}
		}
		row.ResolutionRate = aggregate.Percent(float64(row.Resolved+row.Closed), float64(row.Total))
		rows = append(rows, row)
	}
	aggregate.StableSortBy(rows, func(a, b FeedbackRow) bool { return a.Pending > b.Pending })

	summary := FeedbackSummary{
		Total: len(snap.Feedbacks),
		ByStatus: map[string]int{
			models.FeedbackPending:    0,
			models.FeedbackProcessing: 0,
			models.FeedbackResolved:   0,
			models.FeedbackClosed:     0,
		},
		ByType: []CountItem{},
	}
	for _, f := range snap.Feedbacks {
		summary.ByStatus[strings.ToLower(strings.TrimSpace(f.Status))]++
	}
	done := aggregate.CountBy(snap.Feedbacks, func(f models.Feedback) bool { return f.Done() })
	summary.ResolutionRate = aggregate.Percent(float64(done), float64(summary.Total))

	for _, g := range aggregate.GroupBy(snap.Feedbacks, func(f models.Feedback) string {
		return utils.FirstNonEmpty(strings.TrimSpace(f.Type), aggregate.NotAvailable)
	}) {
		summary.ByType = append(summary.ByType, CountItem{Label: g.Key, Count: len(g.Items)})
	}
	aggregate.StableSortBy(summary.ByType, func(a, b CountItem) bool { return a.Count > b.Count })
	return rows, summary
}

// ReplyInput is the reply form for one feedback record.
type ReplyInput struct {
	ID     int64
	Reply  string
	Status string
}

var replyStatuses = map[string]bool{
	models.FeedbackProcessing: true,
	models.FeedbackResolved:   true,
	models.FeedbackClosed:     true,
}

// ReplyFeedback validates the form, writes it, and reloads the report so
// the page shows the new state.
func (s ReportsService) ReplyFeedback(ctx context.Context, in ReplyInput) (Report[FeedbackRow, FeedbackSummary], error) {
	if in.ID <= 0 {
		return Report[FeedbackRow, FeedbackSummary]{}, domain.ValidationError{Field: "id", Msg: "must be positive"}
	}
	reply := utils.NormalizeSpace(in.Reply)
	if reply == "" {
		return Report[FeedbackRow, FeedbackSummary]{}, domain.ValidationError{Field: "reply", Msg: "required"}
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.FeedbackResolved
	}
	if !replyStatuses[status] {
		return Report[FeedbackRow, FeedbackSummary]{}, domain.ValidationError{Field: "status", Msg: "must be processing, resolved or closed"}
	}
	if s.Replies == nil {
		return Report[FeedbackRow, FeedbackSummary]{}, domain.InternalError{Msg: "feedback writer not configured"}
	}

	if err := s.Replies.ReplyFeedback(ctx, in.ID, reply, status); err != nil {
		utils.LogFailure(s.Loader.RequestID, "reports", "reply_feedback", err)
		return Report[FeedbackRow, FeedbackSummary]{}, writeFailure("order service", "feedback", err)
	}
	utils.LogEvent(s.Loader.RequestID, "reports", "reply_feedback", "feedback replied")
	return s.Feedbacks(ctx, Query{}), nil
}
