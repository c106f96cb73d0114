package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dealerhub/internal/domain/models"
)

var testNow = time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func idPtr(id int64) *int64 { return &id }

func vnd(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

var errUnavailable = errors.New("503 service unavailable")

type fakeSource struct {
	mu    sync.Mutex
	calls map[Collection]int
	fail  map[Collection]bool

	agencies     []models.Agency
	staff        []models.Staff
	debts        []models.AgencyDebt
	vehicles     []models.Vehicle
	options      []models.VehicleOption
	instances    []models.VehicleInstance
	inventory    []models.InventoryRecord
	orders       []models.Order
	quotations   []models.Quotation
	testDrives   []models.TestDrive
	feedbacks    []models.Feedback
	salesRollups []models.SalesRollup
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls: map[Collection]int{},
		fail:  map[Collection]bool{},
		agencies: []models.Agency{
			{ID: 1, Name: "Đại lý Hà Nội", Address: "123 Láng Hạ, Ba Đình, Hà Nội", Status: "active"},
			{ID: 2, Name: "Đại lý Sài Gòn", Address: "45 Nguyễn Huệ, Quận 1, TP.HCM", Status: "Active"},
			{ID: 3, Name: "Đại lý Kon Tum", Address: "12 Phường Thuận, Kon Tum", Status: "inactive"},
		},
		staff: []models.Staff{
			{ID: 7, FullName: "Nguyễn Văn An", AgencyID: 1},
			{ID: 8, FullName: "Trần Thị Bình", AgencyID: 2},
			{ID: 9, FullName: "Lê Văn Cường", AgencyID: 3},
		},
		debts: []models.AgencyDebt{
			{ID: 1, AgencyID: 1, ContractID: 501, DebtAmount: vnd(5_000_000_000), PaidAmount: vnd(3_000_000_000), RemainingAmount: vnd(2_000_000_000), DueDate: day(2025, time.January, 31)},
			{ID: 3, AgencyID: 3, ContractID: 503, DebtAmount: vnd(100_000_000), PaidAmount: vnd(100_000_000), RemainingAmount: vnd(0), DueDate: day(2025, time.January, 1)},
			{ID: 2, AgencyID: 2, ContractID: 502, DebtAmount: vnd(800_000_000), PaidAmount: vnd(200_000_000), RemainingAmount: vnd(600_000_000), DueDate: day(2025, time.December, 31)},
			{ID: 4, AgencyID: 2, ContractID: 504, DebtAmount: vnd(300_000_000), PaidAmount: vnd(0), RemainingAmount: vnd(300_000_000), DueDate: day(2025, time.March, 10)},
		},
		vehicles: []models.Vehicle{
			{ID: 10, VehicleOptionID: 100, ModelName: "VF 8", VariantName: "Plus", Color: "Đỏ", Price: vnd(1_200_000_000)},
			{ID: 11, VehicleOptionID: 101, ModelName: "VF 5", Price: vnd(500_000_000)},
		},
		options: []models.VehicleOption{
			{ID: 100, ModelName: "VF 8"},
			{ID: 101, ModelName: "VF 5"},
		},
		instances: []models.VehicleInstance{
			{ID: 1, VehicleID: 10, AgencyID: idPtr(1), VIN: "VIN1"},
			{ID: 2, VehicleID: 11, AgencyID: idPtr(2), VIN: "VIN2"},
			{ID: 3, VehicleID: 10, VIN: "VIN3"},
		},
		inventory: []models.InventoryRecord{
			{ID: 1, VehicleID: 10, Quantity: 20},
			{ID: 2, VehicleID: 10, AgencyID: idPtr(1), Quantity: 5},
			{ID: 3, VehicleID: 11, AgencyID: idPtr(2), Quantity: 8},
			{ID: 4, VehicleID: 10, AgencyID: idPtr(1), Quantity: 3},
		},
		orders: []models.Order{
			{ID: 1, AgencyID: 1, StaffID: 7, OrderDate: day(2025, time.March, 2), Status: "Completed", TotalAmount: vnd(1_200_000_000), Details: []models.OrderDetail{{VehicleID: 10, Quantity: 1}}},
			{ID: 2, AgencyID: 1, StaffID: 7, OrderDate: day(2025, time.March, 5), Status: "delivered", TotalAmount: vnd(1_200_000_000), Details: []models.OrderDetail{{VehicleID: 10, Quantity: 1}}},
			{ID: 3, AgencyID: 2, StaffID: 8, OrderDate: day(2025, time.March, 10), Status: "COMPLETED", TotalAmount: vnd(500_000_000)},
			{ID: 4, AgencyID: 2, StaffID: 8, OrderDate: day(2025, time.February, 10), Status: "Pending", TotalAmount: vnd(500_000_000)},
			{ID: 5, AgencyID: 99, OrderDate: day(2025, time.February, 20), Status: "Completed", TotalAmount: vnd(300_000_000)},
		},
		quotations: []models.Quotation{
			{ID: 1, AgencyID: 1, StaffID: 7, QuotedPrice: vnd(1_200_000_000), Status: "Converted", CreatedAt: day(2025, time.March, 1)},
			{ID: 2, AgencyID: 1, StaffID: 7, QuotedPrice: vnd(1_200_000_000), Status: "Pending", CreatedAt: day(2025, time.March, 3)},
			{ID: 3, AgencyID: 2, StaffID: 8, QuotedPrice: vnd(500_000_000), Status: "Rejected", CreatedAt: day(2025, time.March, 4)},
			{ID: 4, AgencyID: 2, StaffID: 8, QuotedPrice: vnd(500_000_000), Status: "converted", CreatedAt: day(2025, time.February, 1)},
			{ID: 5, AgencyID: 2, StaffID: 8, QuotedPrice: vnd(500_000_000), Status: "Accepted", CreatedAt: day(2025, time.March, 8)},
		},
		testDrives: []models.TestDrive{
			{ID: 1, AgencyID: 1, VehicleInstanceID: 1, Status: "Scheduled"},
			{ID: 2, AgencyID: 1, VehicleInstanceID: 1, Status: "Completed"},
			{ID: 3, AgencyID: 2, VehicleInstanceID: 2, Status: "Completed"},
			{ID: 4, AgencyID: 2, VehicleInstanceID: 2, Status: "NoShow"},
			{ID: 5, AgencyID: 2, VehicleInstanceID: 2, Status: "Cancelled"},
		},
		feedbacks: []models.Feedback{
			{ID: 1, AgencyID: 1, Type: "Dịch vụ", Status: "pending"},
			{ID: 2, AgencyID: 1, Type: "Sản phẩm", Status: "resolved"},
			{ID: 3, AgencyID: 2, Type: "Dịch vụ", Status: "closed"},
			{ID: 4, AgencyID: 2, Type: "Dịch vụ", Status: "processing"},
			{ID: 5, AgencyID: 2, Status: "Pending"},
		},
		salesRollups: []models.SalesRollup{
			{VehicleID: 10, RollingAvg3Months: 15, RollingAvg6Months: 12},
			{VehicleID: 10, AgencyID: idPtr(1), MonthlySales: []float64{1, 1, 1, 2, 2, 2}, RollingAvg3Months: 1, RollingAvg6Months: 1.5},
			{VehicleID: 11, AgencyID: idPtr(2), MonthlySales: []float64{2, 2, 2, 1, 0, 0}, RollingAvg3Months: 0.5, RollingAvg6Months: 1.2},
		},
	}
}

func serve[T any](f *fakeSource, kind Collection, items []T) ([]T, error) {
	f.mu.Lock()
	f.calls[kind]++
	failed := f.fail[kind]
	f.mu.Unlock()
	if failed {
		return nil, errUnavailable
	}
	return items, nil
}

func (f *fakeSource) callCount(kind Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

func (f *fakeSource) Agencies(context.Context) ([]models.Agency, error) {
	return serve(f, CollAgencies, f.agencies)
}
func (f *fakeSource) Staff(context.Context) ([]models.Staff, error) {
	return serve(f, CollStaff, f.staff)
}
func (f *fakeSource) AgencyDebts(context.Context) ([]models.AgencyDebt, error) {
	return serve(f, CollAgencyDebts, f.debts)
}
func (f *fakeSource) Vehicles(context.Context) ([]models.Vehicle, error) {
	return serve(f, CollVehicles, f.vehicles)
}
func (f *fakeSource) VehicleOptions(context.Context) ([]models.VehicleOption, error) {
	return serve(f, CollVehicleOptions, f.options)
}
func (f *fakeSource) VehicleInstances(context.Context) ([]models.VehicleInstance, error) {
	return serve(f, CollVehicleInstances, f.instances)
}
func (f *fakeSource) Inventory(context.Context) ([]models.InventoryRecord, error) {
	return serve(f, CollInventory, f.inventory)
}
func (f *fakeSource) Orders(context.Context) ([]models.Order, error) {
	return serve(f, CollOrders, f.orders)
}
func (f *fakeSource) Quotations(context.Context) ([]models.Quotation, error) {
	return serve(f, CollQuotations, f.quotations)
}
func (f *fakeSource) TestDrives(context.Context) ([]models.TestDrive, error) {
	return serve(f, CollTestDrives, f.testDrives)
}
func (f *fakeSource) Feedbacks(context.Context) ([]models.Feedback, error) {
	return serve(f, CollFeedbacks, f.feedbacks)
}
func (f *fakeSource) SalesRollups(context.Context) ([]models.SalesRollup, error) {
	return serve(f, CollSalesRollups, f.salesRollups)
}

type fakeTargets struct {
	targets []models.SalesTarget
	err     error
}

func (f fakeTargets) TargetsForMonth(year, month int) ([]models.SalesTarget, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.SalesTarget{}
	for _, t := range f.targets {
		if t.Year == year && t.Month == month {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeReplies struct {
	id     int64
	reply  string
	status string
	err    error
	after  func()
}

func (f *fakeReplies) ReplyFeedback(_ context.Context, id int64, reply, status string) error {
	if f.err != nil {
		return f.err
	}
	f.id, f.reply, f.status = id, reply, status
	if f.after != nil {
		f.after()
	}
	return nil
}

type fakeUploader struct {
	vehicleID int64
	filename  string
	body      string
}

func (f *fakeUploader) UploadVehicleImage(_ context.Context, vehicleID int64, filename string, image io.Reader) error {
	b, err := io.ReadAll(image)
	if err != nil {
		return err
	}
	f.vehicleID, f.filename, f.body = vehicleID, filename, string(b)
	return nil
}

func newTestReports(src Source) ReportsService {
	return ReportsService{
		Loader: Loader{Source: src, RequestID: "test"},
		Targets: fakeTargets{targets: []models.SalesTarget{
			{StaffID: 7, Year: 2025, Month: 3, TargetUnits: 4},
		}},
		Now:                    func() time.Time { return testNow },
		AssumedAchievementRate: 0.85,
		DaysToSellFallback:     30,
	}
}
