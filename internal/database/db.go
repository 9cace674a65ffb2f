// Package database defines what the analysis history store and the
// migration runner need from a SQL connection.
package database

import (
	"context"
	"database/sql"
)

// DB is backed by the pgx pool when DATABASE_ENABLED is set. Repositories
// use Exec and the query methods; the migration runner needs SQLDB.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	// Exec returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	SQLDB() *sql.DB
}

// Rows iterates stored analyses. Callers must Close it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Row interface {
	Scan(dest ...any) error
}
