package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

type StaffRow struct {
	StaffID             int64           `json:"staffId"`
	StaffName           string          `json:"staffName"`
	AgencyID            int64           `json:"agencyId"`
	AgencyName          string          `json:"agencyName"`
	SalesCount          int             `json:"salesCount"`
	Units               int             `json:"units"`
	Revenue             decimal.Decimal `json:"revenue"`
	Quotations          int             `json:"quotations"`
	ConvertedQuotations int             `json:"convertedQuotations"`
	ConversionRate      int             `json:"conversionRate"`
	TargetUnits         int             `json:"targetUnits"`
	TargetEstimated     bool            `json:"targetEstimated"`
	Achievement         int             `json:"achievement"`
	TargetRevenue       decimal.Decimal `json:"targetRevenue"`
	RevenueAchievement  int             `json:"revenueAchievement"`
}

type StaffSummary struct {
	Month              string          `json:"month"`
	StaffCount         int             `json:"staffCount"`
	TotalSales         int             `json:"totalSales"`
	TotalUnits         int             `json:"totalUnits"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	AverageAchievement int             `json:"averageAchievement"`
	EstimatedTargets   int             `json:"estimatedTargets"`
	UnassignedSales    int             `json:"unassignedSales"`
}

// StaffQuery selects the calendar month; zero values mean the current month.
type StaffQuery struct {
	Query
	Year  int
	Month int
}

// StaffPerformance ranks staff by revenue for one month.
func (s ReportsService) StaffPerformance(ctx context.Context, q StaffQuery) Report[StaffRow, StaffSummary] {
	now := s.now()
	year, month := q.Year, q.Month
	if year == 0 || month < 1 || month > 12 {
		year, month = CurrentMonth(now)
	}

	snap := s.Loader.Load(ctx, CollOrders, CollQuotations, CollStaff, CollAgencies)
	warnings := snap.Warnings

	targets := map[int64]models.SalesTarget{}
	if s.Targets != nil {
		list, err := s.Targets.TargetsForMonth(year, month)
		if err != nil {
			utils.LogFailure(s.Loader.RequestID, "reports", "sales_targets", err)
			warnings = append(warnings, fmt.Sprintf("sales_targets: %v", err))
		}
		for _, t := range list {
			targets[t.StaffID] = t
		}
	}

	rows, summary := StaffRows(snap, year, month, targets, s.achievementRate())
	return finish(rows, summary, q.Query, warnings, now)
}

func inMonth(d models.Date, year, month int) bool {
	return !d.IsZero() && d.Year() == year && int(d.Month()) == month
}

// StaffRows builds one row per known staff member plus any staff id seen on
// an order but missing from the directory. Missing targets are estimated
// as ceil(units / rate).
func StaffRows(snap Snapshot, year, month int, targets map[int64]models.SalesTarget, rate float64) ([]StaffRow, StaffSummary) {
	agency := agencyResolver(snap.Agencies)

	sales := aggregate.Filter(snap.Orders, func(o models.Order) bool {
		return o.IsSale() && inMonth(o.OrderDate, year, month)
	})
	quotes := aggregate.Filter(snap.Quotations, func(q models.Quotation) bool {
		return inMonth(q.CreatedAt, year, month)
	})

	index := map[int64]int{}
	rows := []StaffRow{}
	ensure := func(id int64, name string, agencyID int64) *StaffRow {
		if i, ok := index[id]; ok {
			return &rows[i]
		}
		_, agencyName := agency(agencyID)
		rows = append(rows, StaffRow{
			StaffID:       id,
			StaffName:     name,
			AgencyID:      agencyID,
			AgencyName:    agencyName,
			Revenue:       decimal.Zero,
			TargetRevenue: decimal.Zero,
		})
		index[id] = len(rows) - 1
		return &rows[len(rows)-1]
	}
	for _, st := range snap.Staff {
		ensure(st.ID, aggregate.NameOr(true, st.FullName), st.AgencyID)
	}

	summary := StaffSummary{Month: fmt.Sprintf("%04d-%02d", year, month), TotalRevenue: decimal.Zero}
	for _, g := range aggregate.GroupBy(sales, func(o models.Order) int64 { return o.StaffID }) {
		if g.Key == 0 {
			summary.UnassignedSales += len(g.Items)
			continue
		}
		row := ensure(g.Key, aggregate.NotAvailable, g.Items[0].AgencyID)
		row.SalesCount = len(g.Items)
		row.Revenue = aggregate.SumBy(g.Items, func(o models.Order) decimal.Decimal { return o.TotalAmount })
		for _, o := range g.Items {
			row.Units += o.Units()
		}
	}
	for _, g := range aggregate.GroupBy(quotes, func(q models.Quotation) int64 { return q.StaffID }) {
		i, ok := index[g.Key]
		if !ok {
			continue
		}
		rows[i].Quotations = len(g.Items)
		rows[i].ConvertedQuotations = aggregate.CountBy(g.Items, func(q models.Quotation) bool {
			return q.HasStatus(models.QuotationConverted)
		})
	}

	achievementTotal := 0
	for i := range rows {
		r := &rows[i]
		r.ConversionRate = aggregate.ConversionRate(r.ConvertedQuotations, r.Quotations)
		if t, ok := targets[r.StaffID]; ok {
			r.TargetUnits = t.TargetUnits
			r.TargetRevenue = t.TargetRevenue
			if t.TargetRevenue.IsPositive() {
				r.RevenueAchievement = aggregate.Percent(r.Revenue.InexactFloat64(), t.TargetRevenue.InexactFloat64())
			}
		} else {
			r.TargetUnits = EstimatedTarget(r.Units, rate)
			r.TargetEstimated = true
			summary.EstimatedTargets++
		}
		r.Achievement = aggregate.Percent(float64(r.Units), float64(r.TargetUnits))
		achievementTotal += r.Achievement

		summary.TotalSales += r.SalesCount
		summary.TotalUnits += r.Units
		summary.TotalRevenue = summary.TotalRevenue.Add(r.Revenue)
	}
	summary.StaffCount = len(rows)
	if len(rows) > 0 {
		summary.AverageAchievement = int(aggregate.RoundHalfUp(float64(achievementTotal) / float64(len(rows))))
	}

	aggregate.StableSortBy(rows, func(a, b StaffRow) bool { return a.Revenue.GreaterThan(b.Revenue) })
	return rows, summary
}

// EstimatedTarget backfills a missing target from actual units, assuming
// staff reach rate of their target. Zero units give a zero target.
func EstimatedTarget(units int, rate float64) int {
	if units <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Ceil(float64(units) / rate))
}

// CurrentMonth splits now into the (year, month) pair reports default to.
func CurrentMonth(now time.Time) (int, int) {
	return now.Year(), int(now.Month())
}
