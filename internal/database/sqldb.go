package database

import (
	"context"
	"database/sql"
	"errors"
)

var errNilDB = errors.New("nil db")

// SQL adapts a database/sql handle to DB.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errNilDB
	}
	return s.db.PingContext(ctx)
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQL) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errNilDB
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *SQL) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	if s == nil || s.db == nil {
		return nil, errNilDB
	}
	r, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (s *SQL) QueryRow(ctx context.Context, query string, args ...any) Row {
	if s == nil || s.db == nil {
		return errRow{err: errNilDB}
	}
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s *SQL) SQLDB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close()                 { _ = r.rows.Close() }
func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }

type errRow struct {
	err error
}

func (r errRow) Scan(_ ...any) error { return r.err }

var _ DB = (*SQL)(nil)
