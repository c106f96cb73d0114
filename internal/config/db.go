package config

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"dealerhub/internal/utils"

	"github.com/go-sql-driver/mysql"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

// ErrDBNotConfigured is returned when MYSQL_DSN is empty.
var ErrDBNotConfigured = errors.New("database not configured")

// ConnectDB initializes the shared DB connection (idempotent).
// An empty dsn leaves DB nil; the report pipeline works without MySQL.
func ConnectDB(dsn string) (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB, nil
	}
	if dsn == "" {
		return nil, ErrDBNotConfigured
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	// forecast_runs.created_at scans into time.Time.
	cfg.ParseTime = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	DB = db
	utils.Logger.Info().Str("addr", cfg.Addr).Str("db", cfg.DBName).Msg("connected to MySQL")
	return DB, nil
}

func EnsureDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB == nil {
		return ErrDBNotConfigured
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return DB.PingContext(ctx)
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
