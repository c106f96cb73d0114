package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
)

type DebtRow struct {
	ID              int64              `json:"id"`
	AgencyID        int64              `json:"agencyId"`
	AgencyName      string             `json:"agencyName"`
	ContractID      int64              `json:"contractId"`
	DebtAmount      decimal.Decimal    `json:"debtAmount"`
	PaidAmount      decimal.Decimal    `json:"paidAmount"`
	RemainingAmount decimal.Decimal    `json:"remainingAmount"`
	DueDate         models.Date        `json:"dueDate"`
	PaymentProgress int                `json:"paymentProgress"`
	IsOverdue       bool               `json:"isOverdue"`
	DaysOverdue     int                `json:"daysOverdue"`
	Priority        aggregate.Priority `json:"priority"`
}

type DebtSummary struct {
	Contracts       int                        `json:"contracts"`
	Agencies        int                        `json:"agencies"`
	TotalDebt       decimal.Decimal            `json:"totalDebt"`
	TotalPaid       decimal.Decimal            `json:"totalPaid"`
	TotalRemaining  decimal.Decimal            `json:"totalRemaining"`
	OverallProgress int                        `json:"overallProgress"`
	OverdueCount    int                        `json:"overdueCount"`
	OverdueAmount   decimal.Decimal            `json:"overdueAmount"`
	ByPriority      map[aggregate.Priority]int `json:"byPriority"`
}

// DebtQuery filters by priority and overdue status. The summary always
// covers every contract, filters only narrow the rows.
type DebtQuery struct {
	Query
	Priority    string
	OverdueOnly bool
}

// AgencyDebts lists debts with the largest remaining balance first.
func (s ReportsService) AgencyDebts(ctx context.Context, q DebtQuery) Report[DebtRow, DebtSummary] {
	snap := s.Loader.Load(ctx, CollAgencyDebts, CollAgencies)
	rows := DebtRows(snap, s.now())
	summary := summarizeDebts(rows)

	if p := aggregate.Priority(strings.ToLower(strings.TrimSpace(q.Priority))); p != "" {
		rows = aggregate.Filter(rows, func(r DebtRow) bool { return r.Priority == p })
	}
	if q.OverdueOnly {
		rows = aggregate.Filter(rows, func(r DebtRow) bool { return r.IsOverdue })
	}
	return finish(rows, summary, q.Query, snap.Warnings, s.now())
}

// DebtRows derives progress, overdue days and priority per contract.
func DebtRows(snap Snapshot, today time.Time) []DebtRow {
	agency := agencyResolver(snap.Agencies)
	rows := make([]DebtRow, 0, len(snap.AgencyDebts))
	for _, d := range snap.AgencyDebts {
		_, name := agency(d.AgencyID)
		overdue := aggregate.OverdueDays(d.DueDate.Time, d.RemainingAmount, today)
		rows = append(rows, DebtRow{
			ID:              d.ID,
			AgencyID:        d.AgencyID,
			AgencyName:      name,
			ContractID:      d.ContractID,
			DebtAmount:      d.DebtAmount,
			PaidAmount:      d.PaidAmount,
			RemainingAmount: d.RemainingAmount,
			DueDate:         d.DueDate,
			PaymentProgress: aggregate.PaymentProgress(d.PaidAmount, d.DebtAmount),
			IsOverdue:       overdue > 0,
			DaysOverdue:     overdue,
			Priority:        aggregate.DebtPriority(d.RemainingAmount, overdue),
		})
	}
	aggregate.StableSortBy(rows, func(a, b DebtRow) bool {
		if !a.RemainingAmount.Equal(b.RemainingAmount) {
			return a.RemainingAmount.GreaterThan(b.RemainingAmount)
		}
		return aggregate.PriorityRank(a.Priority) < aggregate.PriorityRank(b.Priority)
	})
	return rows
}

func summarizeDebts(rows []DebtRow) DebtSummary {
	sum := DebtSummary{
		Contracts: len(rows),
		Agencies:  aggregate.Distinct(rows, func(r DebtRow) int64 { return r.AgencyID }),
		TotalDebt: aggregate.SumBy(rows, func(r DebtRow) decimal.Decimal { return r.DebtAmount }),
		TotalPaid: aggregate.SumBy(rows, func(r DebtRow) decimal.Decimal { return r.PaidAmount }),
		TotalRemaining: aggregate.SumBy(rows, func(r DebtRow) decimal.Decimal {
			return r.RemainingAmount
		}),
		ByPriority: map[aggregate.Priority]int{
			aggregate.PriorityHigh:   0,
			aggregate.PriorityMedium: 0,
			aggregate.PriorityLow:    0,
		},
	}
	overdue := aggregate.Filter(rows, func(r DebtRow) bool { return r.IsOverdue })
	sum.OverdueCount = len(overdue)
	sum.OverdueAmount = aggregate.SumBy(overdue, func(r DebtRow) decimal.Decimal { return r.RemainingAmount })
	sum.OverallProgress = aggregate.PaymentProgress(sum.TotalPaid, sum.TotalDebt)
	for _, r := range rows {
		sum.ByPriority[r.Priority]++
	}
	return sum
}
