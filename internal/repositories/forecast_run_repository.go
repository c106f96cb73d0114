package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	intconfig "dealerhub/internal/config"
	intdb "dealerhub/internal/db"
	"dealerhub/internal/domain/models"
)

const forecastRunsTable = "forecast_runs"

type ForecastRunRepository struct {
	DB *sql.DB
}

func (r ForecastRunRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ForecastRunRepository) EnsureTable() error {
	db := r.db()
	if db == nil {
		return intconfig.ErrDBNotConfigured
	}
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_runs (
			id            CHAR(36) NOT NULL PRIMARY KEY,
			created_at    DATETIME NOT NULL,
			request_count INT NOT NULL DEFAULT 0,
			result_count  INT NOT NULL DEFAULT 0,
			requests_json LONGTEXT NOT NULL,
			results_json  LONGTEXT NOT NULL,
			warnings_json LONGTEXT NULL,
			KEY idx_forecast_runs_created (created_at)
		)
	`)
	return err
}

// Insert stores the batch and the service's answer as JSON columns.
func (r ForecastRunRepository) Insert(run models.ForecastRun) error {
	db := r.db()
	if db == nil {
		return intconfig.ErrDBNotConfigured
	}
	if !intdb.HasTable(db, forecastRunsTable) {
		return fmt.Errorf("table %s missing", forecastRunsTable)
	}

	reqJSON, err := json.Marshal(run.Requests)
	if err != nil {
		return err
	}
	resJSON, err := json.Marshal(run.Results)
	if err != nil {
		return err
	}
	warnJSON, err := json.Marshal(run.Warnings)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO forecast_runs (id, created_at, request_count, result_count, requests_json, results_json, warnings_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt, len(run.Requests), len(run.Results), string(reqJSON), string(resJSON), string(warnJSON))
	return err
}

// ListRecent returns runs newest first; empty when the table is missing.
func (r ForecastRunRepository) ListRecent(limit int) ([]models.ForecastRun, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, forecastRunsTable) {
		return []models.ForecastRun{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, created_at, requests_json, results_json, COALESCE(warnings_json,'[]')
		FROM forecast_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ForecastRun{}
	for rows.Next() {
		var (
			run                        models.ForecastRun
			reqJSON, resJSON, warnJSON string
		)
		if err := rows.Scan(&run.ID, &run.CreatedAt, &reqJSON, &resJSON, &warnJSON); err != nil {
			return nil, err
		}
		run.Requests = []models.ForecastRequest{}
		run.Results = []models.ForecastResult{}
		run.Warnings = []string{}
		if err := json.Unmarshal([]byte(reqJSON), &run.Requests); err != nil {
			return nil, fmt.Errorf("run %s requests: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(resJSON), &run.Results); err != nil {
			return nil, fmt.Errorf("run %s results: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(warnJSON), &run.Warnings); err != nil || run.Warnings == nil {
			run.Warnings = []string{}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
