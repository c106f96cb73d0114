package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
)

type Overview struct {
	Agencies        int             `json:"agencies"`
	ActiveAgencies  int             `json:"activeAgencies"`
	Vehicles        int             `json:"vehicles"`
	Orders          int             `json:"orders"`
	Sales           int             `json:"sales"`
	Revenue         decimal.Decimal `json:"revenue"`
	OpenQuotations  int             `json:"openQuotations"`
	OverdueDebts    int             `json:"overdueDebts"`
	PendingFeedback int             `json:"pendingFeedback"`
	UpcomingDrives  int             `json:"upcomingDrives"`
	TotalStock      int             `json:"totalStock"`
	Monthly         []MonthlyPoint  `json:"monthly"`
	SalesTrend      aggregate.Trend `json:"salesTrend"`
	Warnings        []string        `json:"warnings"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// Overview collects the dashboard's headline counters in one round.
func (s ReportsService) Overview(ctx context.Context) Overview {
	snap := s.Loader.Load(ctx, CollAgencies, CollVehicles, CollOrders, CollQuotations,
		CollAgencyDebts, CollFeedbacks, CollTestDrives, CollInventory)
	out := OverviewOf(snap, s.now())
	out.Warnings = snap.Warnings
	return out
}

func OverviewOf(snap Snapshot, now time.Time) Overview {
	sales := aggregate.Filter(snap.Orders, func(o models.Order) bool { return o.IsSale() })
	out := Overview{
		Agencies: len(snap.Agencies),
		ActiveAgencies: aggregate.CountBy(snap.Agencies, func(a models.Agency) bool {
			return strings.EqualFold(strings.TrimSpace(a.Status), "active")
		}),
		Vehicles: len(snap.Vehicles),
		Orders:   len(snap.Orders),
		Sales:    len(sales),
		Revenue:  aggregate.SumBy(sales, func(o models.Order) decimal.Decimal { return o.TotalAmount }),
		OpenQuotations: aggregate.CountBy(snap.Quotations, func(q models.Quotation) bool {
			return q.HasStatus(models.QuotationPending) || q.HasStatus(models.QuotationAccepted)
		}),
		OverdueDebts: aggregate.CountBy(snap.AgencyDebts, func(d models.AgencyDebt) bool {
			return aggregate.OverdueDays(d.DueDate.Time, d.RemainingAmount, now) > 0
		}),
		PendingFeedback: aggregate.CountBy(snap.Feedbacks, func(f models.Feedback) bool {
			return f.HasStatus(models.FeedbackPending)
		}),
		UpcomingDrives: aggregate.CountBy(snap.TestDrives, func(d models.TestDrive) bool { return d.Holds() }),
		Monthly:        monthlySeries(sales, func(o models.Order) models.Order { return o }),
		Warnings:       []string{},
		GeneratedAt:    now,
	}
	for _, r := range snap.Inventory {
		out.TotalStock += r.Quantity
	}

	series := make([]float64, 0, len(out.Monthly))
	for _, p := range out.Monthly {
		series = append(series, float64(p.Sales))
	}
	out.SalesTrend = aggregate.TrendOf(series)
	return out
}
