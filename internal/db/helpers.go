package db

import (
	"database/sql"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

const (
	tableProbe  = "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ? LIMIT 1"
	columnProbe = "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ? LIMIT 1"
)

// HasTable probes information_schema; any error counts as missing.
func HasTable(q QueryRower, table string) bool {
	return probe(q, tableProbe, table)
}

func HasColumn(q QueryRower, table, column string) bool {
	return probe(q, columnProbe, table, column)
}

func probe(q QueryRower, query string, args ...any) bool {
	var name sql.NullString
	if err := q.QueryRow(query, args...).Scan(&name); err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
