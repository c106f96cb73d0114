package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"dealerhub/internal/domain/models"
)

func TestSalesTargetsForMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("sales_targets").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("sales_targets"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("sales_targets", "target_revenue").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("target_revenue"))
	mock.ExpectQuery("SELECT staff_id, year, month").WithArgs(2025, 3).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "year", "month", "target_units", "target_revenue"}).
			AddRow(7, 2025, 3, 4, "4800000000.00").
			AddRow(8, 2025, 3, 2, nil))

	repo := SalesTargetRepository{DB: db}
	targets, err := repo.TargetsForMonth(2025, 3)
	if err != nil {
		t.Fatalf("TargetsForMonth error: %v", err)
	}
	if len(targets) != 2 || targets[0].StaffID != 7 || targets[0].TargetUnits != 4 {
		t.Fatalf("targets = %+v", targets)
	}
	if !targets[0].TargetRevenue.Equal(decimal.NewFromInt(4_800_000_000)) || !targets[1].TargetRevenue.IsZero() {
		t.Fatalf("revenue = %s, %s", targets[0].TargetRevenue, targets[1].TargetRevenue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSalesTargetsMissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("sales_targets").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	targets, err := SalesTargetRepository{DB: db}.TargetsForMonth(2025, 3)
	if err != nil || targets == nil || len(targets) != 0 {
		t.Fatalf("targets = %v, err = %v", targets, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSalesTargetUpsertWithoutRevenueColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.columns").WithArgs("sales_targets", "target_revenue").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("INSERT INTO sales_targets \\(staff_id, year, month, target_units\\)").
		WithArgs(7, 2025, 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = SalesTargetRepository{DB: db}.Upsert(models.SalesTarget{StaffID: 7, Year: 2025, Month: 3, TargetUnits: 5})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
