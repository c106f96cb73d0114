package repositories

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	intconfig "dealerhub/internal/config"
	intdb "dealerhub/internal/db"
	"dealerhub/internal/domain/models"
)

const salesTargetsTable = "sales_targets"

type SalesTargetRepository struct {
	DB *sql.DB
}

func (r SalesTargetRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureTable creates sales_targets when missing.
func (r SalesTargetRepository) EnsureTable() error {
	db := r.db()
	if db == nil {
		return intconfig.ErrDBNotConfigured
	}
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sales_targets (
			staff_id       BIGINT NOT NULL,
			year           INT NOT NULL,
			month          INT NOT NULL,
			target_units   INT NOT NULL DEFAULT 0,
			target_revenue DECIMAL(18,2) NULL,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			PRIMARY KEY (staff_id, year, month)
		)
	`)
	return err
}

// TargetsForMonth returns an empty list when the table does not exist.
// Older deployments lack target_revenue; that column is probed.
func (r SalesTargetRepository) TargetsForMonth(year, month int) ([]models.SalesTarget, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, salesTargetsTable) {
		return []models.SalesTarget{}, nil
	}

	revenueCol := "0"
	if intdb.HasColumn(db, salesTargetsTable, "target_revenue") {
		revenueCol = "COALESCE(target_revenue,0)"
	}

	rows, err := db.Query(fmt.Sprintf(`
		SELECT staff_id, year, month, COALESCE(target_units,0), %s
		FROM sales_targets
		WHERE year = ? AND month = ?
		ORDER BY staff_id
	`, revenueCol), year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SalesTarget{}
	for rows.Next() {
		var (
			t       models.SalesTarget
			revenue sql.NullString
		)
		if err := rows.Scan(&t.StaffID, &t.Year, &t.Month, &t.TargetUnits, &revenue); err != nil {
			return nil, err
		}
		t.TargetRevenue = decimal.Zero
		if revenue.Valid && revenue.String != "" {
			if d, err := decimal.NewFromString(revenue.String); err == nil {
				t.TargetRevenue = d
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Upsert writes one target, replacing any existing value for the month.
func (r SalesTargetRepository) Upsert(t models.SalesTarget) error {
	db := r.db()
	if db == nil {
		return intconfig.ErrDBNotConfigured
	}
	if !intdb.HasColumn(db, salesTargetsTable, "target_revenue") {
		_, err := db.Exec(`
			INSERT INTO sales_targets (staff_id, year, month, target_units)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE target_units = VALUES(target_units)
		`, t.StaffID, t.Year, t.Month, t.TargetUnits)
		return err
	}
	_, err := db.Exec(`
		INSERT INTO sales_targets (staff_id, year, month, target_units, target_revenue)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE target_units = VALUES(target_units), target_revenue = VALUES(target_revenue)
	`, t.StaffID, t.Year, t.Month, t.TargetUnits, t.TargetRevenue.String())
	return err
}
