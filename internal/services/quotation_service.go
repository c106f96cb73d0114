package services

import (
	"context"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain/models"
)

type QuotationRow struct {
	AgencyID       int64           `json:"agencyId"`
	AgencyName     string          `json:"agencyName"`
	Total          int             `json:"total"`
	Pending        int             `json:"pending"`
	Accepted       int             `json:"accepted"`
	Converted      int             `json:"converted"`
	Rejected       int             `json:"rejected"`
	ConversionRate int             `json:"conversionRate"`
	QuotedValue    decimal.Decimal `json:"quotedValue"`
	ConvertedValue decimal.Decimal `json:"convertedValue"`
}

type QuotationSummary struct {
	Total          int             `json:"total"`
	Pending        int             `json:"pending"`
	Accepted       int             `json:"accepted"`
	Converted      int             `json:"converted"`
	Rejected       int             `json:"rejected"`
	ConversionRate int             `json:"conversionRate"`
	QuotedValue    decimal.Decimal `json:"quotedValue"`
}

// QuotationConversion ranks agencies by conversion rate, best first.
func (s ReportsService) QuotationConversion(ctx context.Context, q Query) Report[QuotationRow, QuotationSummary] {
	snap := s.Loader.Load(ctx, CollQuotations, CollAgencies)
	rows, summary := QuotationRows(snap)
	return finish(rows, summary, q, snap.Warnings, s.now())
}

// QuotationRows counts only the Converted status as a conversion;
// Accepted quotations are still open.
func QuotationRows(snap Snapshot) ([]QuotationRow, QuotationSummary) {
	agency := agencyResolver(snap.Agencies)
	price := func(q models.Quotation) decimal.Decimal { return q.QuotedPrice }

	groups := aggregate.GroupBy(snap.Quotations, func(q models.Quotation) int64 { return q.AgencyID })
	rows := make([]QuotationRow, 0, len(groups))
	for _, g := range groups {
		_, name := agency(g.Key)
		row := QuotationRow{AgencyID: g.Key, AgencyName: name, Total: len(g.Items)}
		row.Pending, row.Accepted, row.Converted, row.Rejected = countQuotations(g.Items)
		row.ConversionRate = aggregate.ConversionRate(row.Converted, row.Total)
		row.QuotedValue = aggregate.SumBy(g.Items, price)
		row.ConvertedValue = aggregate.SumBy(aggregate.Filter(g.Items, func(q models.Quotation) bool {
			return q.HasStatus(models.QuotationConverted)
		}), price)
		rows = append(rows, row)
	}
	aggregate.StableSortBy(rows, func(a, b QuotationRow) bool { return a.ConversionRate > b.ConversionRate })

	summary := QuotationSummary{Total: len(snap.Quotations), QuotedValue: aggregate.SumBy(snap.Quotations, price)}
	summary.Pending, summary.Accepted, summary.Converted, summary.Rejected = countQuotations(snap.Quotations)
	summary.ConversionRate = aggregate.ConversionRate(summary.Converted, summary.Total)
	return rows, summary
}

func countQuotations(items []models.Quotation) (pending, accepted, converted, rejected int) {
	for _, q := range items {
		switch {
		case q.HasStatus(models.QuotationPending):
			pending++
		case q.HasStatus(models.QuotationAccepted):
			accepted++
		case q.HasStatus(models.QuotationConverted):
			converted++
		case q.HasStatus(models.QuotationRejected):
			rejected++
		}
	}
	return
}
