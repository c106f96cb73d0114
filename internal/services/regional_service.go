package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/domain/models"
	"dealerhub/internal/utils"
)

type RegionRow struct {
	Region        string          `json:"region"`
	AgencyCount   int             `json:"agencyCount"`
	OrderCount    int             `json:"orderCount"`
	SalesCount    int             `json:"salesCount"`
	Units         int             `json:"units"`
	Revenue       decimal.Decimal `json:"revenue"`
	RevenueShare  int             `json:"revenueShare"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

// MonthlyPoint is one month of sales; Month is "YYYY-MM".
type MonthlyPoint struct {
	Month   string          `json:"month"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

type RegionSummary struct {
	Regions      int             `json:"regions"`
	TotalOrders  int             `json:"totalOrders"`
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TopRegion    string          `json:"topRegion"`
	Monthly      []MonthlyPoint  `json:"monthly"`
	// ByRegion carries each region's monthly series for the chart.
	ByRegion map[string][]MonthlyPoint `json:"byRegion"`
}

// RegionalSales reports revenue by region, highest first.
func (s ReportsService) RegionalSales(ctx context.Context, q Query) Report[RegionRow, RegionSummary] {
	snap := s.Loader.Load(ctx, CollOrders, CollAgencies)
	rows, summary := RegionalRows(snap)
	return finish(rows, summary, q, snap.Warnings, s.now())
}

type regionalOrder struct {
	models.Order
	region string
}

// RegionalRows resolves each order's region through its agency address.
// Orders whose agency is unknown fall into "N/A".
func RegionalRows(snap Snapshot) ([]RegionRow, RegionSummary) {
	agency := aggregate.Lookup(snap.Agencies, func(a models.Agency) int64 { return a.ID })

	orders := make([]regionalOrder, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		region := aggregate.NotAvailable
		if a, ok := agency(o.AgencyID); ok {
			region = domain.RegionOf(a.Address)
		}
		orders = append(orders, regionalOrder{Order: o, region: region})
	}
	sales := aggregate.Filter(orders, func(o regionalOrder) bool { return o.IsSale() })

	agenciesPerRegion := map[string]int{}
	regionOrder := []string{}
	seen := map[string]bool{}
	addRegion := func(r string) {
		if !seen[r] {
			seen[r] = true
			regionOrder = append(regionOrder, r)
		}
	}
	for _, a := range snap.Agencies {
		r := domain.RegionOf(a.Address)
		agenciesPerRegion[r]++
		addRegion(r)
	}

	orderCount := map[string]int{}
	for _, o := range orders {
		orderCount[o.region]++
		addRegion(o.region)
	}

	byRegion := map[string]aggregate.RollupRow[string]{}
	for _, r := range aggregate.Rollup(sales, func(o regionalOrder) string { return o.region },
		aggregate.Metric[regionalOrder]{Name: "revenue", Value: func(o regionalOrder) decimal.Decimal { return o.TotalAmount }},
		aggregate.Metric[regionalOrder]{Name: "units", Value: func(o regionalOrder) decimal.Decimal { return decimal.NewFromInt(int64(o.Units())) }},
	) {
		byRegion[r.Key] = r
	}

	totalRevenue := aggregate.SumBy(sales, func(o regionalOrder) decimal.Decimal { return o.TotalAmount })
	totalF := totalRevenue.InexactFloat64()

	rows := make([]RegionRow, 0, len(regionOrder))
	for _, region := range regionOrder {
		row := RegionRow{
			Region:        region,
			AgencyCount:   agenciesPerRegion[region],
			OrderCount:    orderCount[region],
			Revenue:       decimal.Zero,
			AvgOrderValue: decimal.Zero,
		}
		if r, ok := byRegion[region]; ok {
			row.SalesCount = r.Count
			row.Revenue = r.Sums["revenue"]
			row.Units = int(r.Sums["units"].IntPart())
			row.AvgOrderValue = row.Revenue.Div(decimal.NewFromInt(int64(r.Count))).Round(0)
		}
		row.RevenueShare = aggregate.Percent(row.Revenue.InexactFloat64(), totalF)
		rows = append(rows, row)
	}
	aggregate.StableSortBy(rows, func(a, b RegionRow) bool { return a.Revenue.GreaterThan(b.Revenue) })

	summary := RegionSummary{
		Regions:      len(rows),
		TotalOrders:  len(orders),
		TotalSales:   len(sales),
		TotalRevenue: totalRevenue,
		Monthly:      monthlySeries(sales, func(o regionalOrder) models.Order { return o.Order }),
		ByRegion:     map[string][]MonthlyPoint{},
	}
	if len(rows) > 0 && rows[0].Revenue.IsPositive() {
		summary.TopRegion = rows[0].Region
	}
	for _, g := range aggregate.GroupBy(sales, func(o regionalOrder) string { return o.region }) {
		summary.ByRegion[g.Key] = monthlySeries(g.Items, func(o regionalOrder) models.Order { return o.Order })
	}
	return rows, summary
}

// monthlySeries buckets sale orders by order month, oldest first.
// Orders without a date are left out of the series.
func monthlySeries[T any](items []T, order func(T) models.Order) []MonthlyPoint {
	points := map[string]*MonthlyPoint{}
	for _, it := range items {
		o := order(it)
		if o.OrderDate.IsZero() {
			continue
		}
		key := utils.MonthKey(o.OrderDate.Time)
		p, ok := points[key]
		if !ok {
			p = &MonthlyPoint{Month: key, Revenue: decimal.Zero}
			points[key] = p
		}
		p.Sales++
		p.Revenue = p.Revenue.Add(o.TotalAmount)
	}
	out := make([]MonthlyPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
