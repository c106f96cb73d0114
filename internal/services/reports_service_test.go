package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/domain"
	"dealerhub/internal/upstream"
)

func TestTurnoverReport(t *testing.T) {
	svc := newTestReports(newFakeSource())
	r := svc.Turnover(context.Background(), TurnoverQuery{})

	if len(r.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(r.Rows))
	}
	first, second, last := r.Rows[0], r.Rows[1], r.Rows[2]
	if first.VehicleID != 11 || first.AvgDaysToSell != 60 || first.TurnoverRate != 6.1 || first.Speed != SpeedNormal {
		t.Fatalf("first row = %+v", first)
	}
	if first.Trend != aggregate.TrendDown || first.TrendPercent != -83 {
		t.Fatalf("first trend = %s %d", first.Trend, first.TrendPercent)
	}
	if second.Stock != 8 || second.AgencyName != "Đại lý Hà Nội" || second.TurnoverRate != 12.2 || second.Speed != SpeedFast {
		t.Fatalf("second row = %+v", second)
	}
	if second.Trend != aggregate.TrendUp || second.TrendPercent != 100 {
		t.Fatalf("second trend = %s %d", second.Trend, second.TrendPercent)
	}
	if last.OwnerKey != aggregate.CentralKey || last.AgencyName != aggregate.CentralLabel || last.AgencyID != nil {
		t.Fatalf("central row = %+v", last)
	}
	if last.AvgDaysToSell != 2 || last.TurnoverRate != 182.5 {
		t.Fatalf("central turnover = %d days, %v", last.AvgDaysToSell, last.TurnoverRate)
	}
	if r.Summary.TotalStock != 36 || r.Summary.CentralStock != 20 || r.Summary.FastCount != 2 || r.Summary.NormalCount != 1 {
		t.Fatalf("summary = %+v", r.Summary)
	}

	central := svc.Turnover(context.Background(), TurnoverQuery{Owner: "central"})
	if len(central.Rows) != 1 || central.Rows[0].Stock != 20 {
		t.Fatalf("owner filter = %+v", central.Rows)
	}
}

func TestTurnoverWithoutRollups(t *testing.T) {
	src := newFakeSource()
	src.fail[CollSalesRollups] = true
	src.fail[CollVehicles] = true
	r := newTestReports(src).Turnover(context.Background(), TurnoverQuery{})

	if len(r.Warnings) != 2 {
		t.Fatalf("warnings = %v", r.Warnings)
	}
	for _, row := range r.Rows {
		if row.AvgDaysToSell != 30 || row.TurnoverRate != 12.2 {
			t.Fatalf("fallback row = %+v", row)
		}
		if row.VehicleName != aggregate.NotAvailable {
			t.Fatalf("vehicle name = %q", row.VehicleName)
		}
		if row.Trend != aggregate.TrendStable || row.TrendPercent != 0 {
			t.Fatalf("empty series trend = %s %d", row.Trend, row.TrendPercent)
		}
	}
}

func TestRegionalSalesReport(t *testing.T) {
	r := newTestReports(newFakeSource()).RegionalSales(context.Background(), Query{})

	want := []struct {
		region string
		share  int
		orders int
		sales  int
	}{
		{"Hà Nội", 75, 2, 2},
		{"Hồ Chí Minh", 16, 2, 1},
		{aggregate.NotAvailable, 9, 1, 1},
		{"Kon Tum", 0, 0, 0},
	}
	if len(r.Rows) != len(want) {
		t.Fatalf("rows = %+v", r.Rows)
	}
	for i, w := range want {
		got := r.Rows[i]
		if got.Region != w.region || got.RevenueShare != w.share || got.OrderCount != w.orders || got.SalesCount != w.sales {
			t.Fatalf("row %d = %+v, want %+v", i, got, w)
		}
	}
	if !r.Rows[0].AvgOrderValue.Equal(vnd(1_200_000_000)) || r.Rows[0].AgencyCount != 1 {
		t.Fatalf("hanoi row = %+v", r.Rows[0])
	}
	if !r.Summary.TotalRevenue.Equal(vnd(3_200_000_000)) || r.Summary.TopRegion != "Hà Nội" {
		t.Fatalf("summary = %+v", r.Summary)
	}
	if len(r.Summary.Monthly) != 2 || r.Summary.Monthly[0].Month != "2025-02" || r.Summary.Monthly[1].Sales != 3 {
		t.Fatalf("monthly = %+v", r.Summary.Monthly)
	}
	if len(r.Summary.ByRegion["Hà Nội"]) != 1 {
		t.Fatalf("by region = %+v", r.Summary.ByRegion)
	}
}

func TestRegionalSalesWithoutAgencies(t *testing.T) {
	src := newFakeSource()
	src.fail[CollAgencies] = true
	r := newTestReports(src).RegionalSales(context.Background(), Query{})

	if len(r.Rows) != 1 || r.Rows[0].Region != aggregate.NotAvailable || r.Rows[0].RevenueShare != 100 {
		t.Fatalf("rows = %+v", r.Rows)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings = %v", r.Warnings)
	}
}

func TestAgencyDebtReport(t *testing.T) {
	svc := newTestReports(newFakeSource())
	r := svc.AgencyDebts(context.Background(), DebtQuery{})

	ids := []int64{}
	for _, row := range r.Rows {
		ids = append(ids, row.ID)
	}
	if len(ids) != 4 || ids[0] != 1 || ids[1] != 2 || ids[2] != 4 || ids[3] != 3 {
		t.Fatalf("order = %v", ids)
	}
	top := r.Rows[0]
	if top.DaysOverdue != 43 || !top.IsOverdue || top.Priority != aggregate.PriorityHigh || top.PaymentProgress != 60 {
		t.Fatalf("top row = %+v", top)
	}
	if r.Rows[1].Priority != aggregate.PriorityMedium || r.Rows[1].IsOverdue {
		t.Fatalf("second row = %+v", r.Rows[1])
	}
	if r.Rows[2].DaysOverdue != 5 || r.Rows[2].Priority != aggregate.PriorityMedium {
		t.Fatalf("third row = %+v", r.Rows[2])
	}
	paid := r.Rows[3]
	if paid.IsOverdue || paid.Priority != aggregate.PriorityLow || paid.PaymentProgress != 100 {
		t.Fatalf("paid-off row = %+v", paid)
	}

	s := r.Summary
	if !s.TotalDebt.Equal(vnd(6_200_000_000)) || !s.TotalRemaining.Equal(vnd(2_900_000_000)) || s.OverallProgress != 53 {
		t.Fatalf("summary totals = %+v", s)
	}
	if s.OverdueCount != 2 || !s.OverdueAmount.Equal(vnd(2_300_000_000)) {
		t.Fatalf("overdue = %d %s", s.OverdueCount, s.OverdueAmount)
	}
	if s.ByPriority[aggregate.PriorityHigh] != 1 || s.ByPriority[aggregate.PriorityMedium] != 2 || s.ByPriority[aggregate.PriorityLow] != 1 {
		t.Fatalf("by priority = %v", s.ByPriority)
	}

	overdue := svc.AgencyDebts(context.Background(), DebtQuery{OverdueOnly: true})
	if len(overdue.Rows) != 2 || overdue.Summary.Contracts != 4 {
		t.Fatalf("overdue filter = %d rows, %d contracts", len(overdue.Rows), overdue.Summary.Contracts)
	}
	medium := svc.AgencyDebts(context.Background(), DebtQuery{Priority: "MEDIUM"})
	if len(medium.Rows) != 2 {
		t.Fatalf("priority filter = %+v", medium.Rows)
	}
}

func TestAgencyDebtPagination(t *testing.T) {
	svc := newTestReports(newFakeSource())
	r := svc.AgencyDebts(context.Background(), DebtQuery{Query: Query{Page: 2, PageSize: 3}})
	if len(r.Rows) != 1 || r.Rows[0].ID != 3 {
		t.Fatalf("page 2 = %+v", r.Rows)
	}
	if r.Pagination.Total != 4 || r.Pagination.TotalPages != 2 {
		t.Fatalf("pagination = %+v", r.Pagination)
	}
	beyond := svc.AgencyDebts(context.Background(), DebtQuery{Query: Query{Page: 9, PageSize: 3}})
	if beyond.Rows == nil || len(beyond.Rows) != 0 {
		t.Fatalf("page past the end should be empty, got %v", beyond.Rows)
	}
}

func TestStaffPerformanceReport(t *testing.T) {
	r := newTestReports(newFakeSource()).StaffPerformance(context.Background(), StaffQuery{})

	if r.Summary.Month != "2025-03" || len(r.Rows) != 3 {
		t.Fatalf("summary = %+v, rows = %d", r.Summary, len(r.Rows))
	}
	an, binh, cuong := r.Rows[0], r.Rows[1], r.Rows[2]
	if an.StaffID != 7 || an.SalesCount != 2 || an.Units != 2 || an.TargetUnits != 4 || an.TargetEstimated || an.Achievement != 50 {
		t.Fatalf("staff 7 = %+v", an)
	}
	if an.Quotations != 2 || an.ConversionRate != 50 {
		t.Fatalf("staff 7 quotations = %+v", an)
	}
	if binh.StaffID != 8 || binh.TargetUnits != 2 || !binh.TargetEstimated || binh.Achievement != 50 {
		t.Fatalf("staff 8 = %+v", binh)
	}
	if binh.Quotations != 2 || binh.ConversionRate != 0 {
		t.Fatalf("staff 8 quotations = %+v", binh)
	}
	if cuong.StaffID != 9 || cuong.TargetUnits != 0 || cuong.Achievement != 0 || cuong.AgencyName != "Đại lý Kon Tum" {
		t.Fatalf("staff 9 = %+v", cuong)
	}
	if r.Summary.EstimatedTargets != 2 || r.Summary.TotalSales != 3 || r.Summary.AverageAchievement != 33 {
		t.Fatalf("summary = %+v", r.Summary)
	}

	feb := newTestReports(newFakeSource()).StaffPerformance(context.Background(), StaffQuery{Year: 2025, Month: 2})
	if feb.Summary.UnassignedSales != 1 || feb.Summary.TotalSales != 0 {
		t.Fatalf("february = %+v", feb.Summary)
	}
}

func TestStaffPerformanceTargetStoreFailure(t *testing.T) {
	svc := newTestReports(newFakeSource())
	svc.Targets = fakeTargets{err: errors.New("connection refused")}
	r := svc.StaffPerformance(context.Background(), StaffQuery{Year: 2025, Month: 3})

	if len(r.Warnings) != 1 || r.Summary.EstimatedTargets != 3 {
		t.Fatalf("warnings = %v, summary = %+v", r.Warnings, r.Summary)
	}
	if r.Rows[0].TargetUnits != 3 {
		t.Fatalf("estimated target for 2 units = %d", r.Rows[0].TargetUnits)
	}
}

func TestEstimatedTarget(t *testing.T) {
	cases := []struct{ units, want int }{{0, 0}, {1, 2}, {17, 20}, {85, 100}}
	for _, c := range cases {
		if got := EstimatedTarget(c.units, 0.85); got != c.want {
			t.Fatalf("EstimatedTarget(%d) = %d, want %d", c.units, got, c.want)
		}
	}
}

func TestQuotationConversionReport(t *testing.T) {
	r := newTestReports(newFakeSource()).QuotationConversion(context.Background(), Query{})
	if len(r.Rows) != 2 || r.Rows[0].AgencyID != 1 || r.Rows[0].ConversionRate != 50 {
		t.Fatalf("rows = %+v", r.Rows)
	}
	if r.Rows[1].ConversionRate != 33 || r.Rows[1].Accepted != 1 || r.Rows[1].Rejected != 1 {
		t.Fatalf("agency 2 = %+v", r.Rows[1])
	}
	if r.Summary.Total != 5 || r.Summary.Converted != 2 || r.Summary.ConversionRate != 40 {
		t.Fatalf("summary = %+v", r.Summary)
	}
}

func TestTestDriveReport(t *testing.T) {
	r := newTestReports(newFakeSource()).TestDrives(context.Background(), Query{})
	if len(r.Rows) != 2 || r.Rows[0].AgencyID != 2 {
		t.Fatalf("rows = %+v", r.Rows)
	}
	if r.Rows[0].CompletionRate != 33 || r.Rows[0].NoShowRate != 33 || r.Rows[1].CompletionRate != 50 {
		t.Fatalf("rates = %+v", r.Rows)
	}
	s := r.Summary
	if s.Total != 5 || s.CompletionRate != 40 || s.NoShowRate != 20 || s.Upcoming != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.Instances) != 3 || s.Instances[0].Available || !s.Instances[1].Available {
		t.Fatalf("instances = %+v", s.Instances)
	}
	if s.Instances[2].AgencyName != aggregate.CentralLabel || s.Instances[0].VehicleName != "VF 8 Plus" {
		t.Fatalf("instance labels = %+v", s.Instances)
	}
}

func TestFeedbackReport(t *testing.T) {
	r := newTestReports(newFakeSource()).Feedbacks(context.Background(), Query{})
	if len(r.Rows) != 2 || r.Rows[0].AgencyID != 1 || r.Rows[0].ResolutionRate != 50 || r.Rows[1].ResolutionRate != 33 {
		t.Fatalf("rows = %+v", r.Rows)
	}
	s := r.Summary
	if s.Total != 5 || s.ResolutionRate != 40 || s.ByStatus["pending"] != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.ByType) != 3 || s.ByType[0].Label != "Dịch vụ" || s.ByType[0].Count != 3 {
		t.Fatalf("by type = %+v", s.ByType)
	}
}

func TestReplyFeedback(t *testing.T) {
	src := newFakeSource()
	replies := &fakeReplies{}
	replies.after = func() { src.feedbacks[0].Status = "resolved" }
	svc := newTestReports(src)
	svc.Replies = replies

	r, err := svc.ReplyFeedback(context.Background(), ReplyInput{ID: 1, Reply: "  Đã   liên hệ khách  "})
	if err != nil {
		t.Fatalf("ReplyFeedback error: %v", err)
	}
	if replies.id != 1 || replies.reply != "Đã liên hệ khách" || replies.status != "resolved" {
		t.Fatalf("written = %+v", replies)
	}
	if r.Summary.ByStatus["pending"] != 1 || src.callCount(CollFeedbacks) != 1 {
		t.Fatalf("report should be reloaded after the write: %+v", r.Summary.ByStatus)
	}
}

func TestReplyFeedbackValidation(t *testing.T) {
	replies := &fakeReplies{}
	svc := newTestReports(newFakeSource())
	svc.Replies = replies

	cases := []ReplyInput{
		{ID: 0, Reply: "ok"},
		{ID: 1, Reply: "   "},
		{ID: 1, Reply: "ok", Status: "pending"},
	}
	for _, in := range cases {
		if _, err := svc.ReplyFeedback(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}
	if replies.id != 0 {
		t.Fatalf("invalid input must not reach the writer")
	}

	replies.err = errUnavailable
	if _, err := svc.ReplyFeedback(context.Background(), ReplyInput{ID: 1, Reply: "ok"}); !domain.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	replies.err = fmt.Errorf("put: %w", &upstream.StatusError{Method: "PUT", URL: "/feedbacks/9/reply", StatusCode: 404})
	if _, err := svc.ReplyFeedback(context.Background(), ReplyInput{ID: 9, Reply: "ok"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for a 404, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	o := newTestReports(newFakeSource()).Overview(context.Background())
	if o.Agencies != 3 || o.ActiveAgencies != 2 || o.Orders != 5 || o.Sales != 4 {
		t.Fatalf("counts = %+v", o)
	}
	if !o.Revenue.Equal(vnd(3_200_000_000)) || o.OpenQuotations != 2 || o.OverdueDebts != 2 {
		t.Fatalf("money/quotations = %+v", o)
	}
	if o.PendingFeedback != 2 || o.UpcomingDrives != 1 || o.TotalStock != 36 {
		t.Fatalf("engagement = %+v", o)
	}
	if len(o.Monthly) != 2 || o.SalesTrend.Direction != aggregate.TrendUp || o.SalesTrend.Percent != 0 {
		t.Fatalf("trend = %+v, monthly = %+v", o.SalesTrend, o.Monthly)
	}
}

func TestReportsRenderWhenEverythingFails(t *testing.T) {
	src := newFakeSource()
	for _, k := range []Collection{CollAgencies, CollAgencyDebts, CollOrders, CollQuotations, CollStaff} {
		src.fail[k] = true
	}
	svc := newTestReports(src)

	debts := svc.AgencyDebts(context.Background(), DebtQuery{})
	if debts.Rows == nil || len(debts.Rows) != 0 || len(debts.Warnings) != 2 {
		t.Fatalf("debts = %+v", debts)
	}
	staff := svc.StaffPerformance(context.Background(), StaffQuery{})
	if len(staff.Rows) != 0 || len(staff.Warnings) != 4 {
		t.Fatalf("staff = %+v", staff)
	}
}
