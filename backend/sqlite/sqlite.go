// Package sqlite is the default, zero-config backend.Backend
// implementation, wrapping database/sql with the pure-Go
// ncruces/go-sqlite3 driver (no cgo).
package sqlite

import (
	"context"
	"database/sql"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/LerianStudio/oosgo/backend"
	"github.com/LerianStudio/oosgo/internal/errs"
)

// Backend is a backend.Backend over a single *sql.DB, with at most one
// in-flight *sql.Tx, single-threaded per connection.
type Backend struct {
	db *sql.DB
	tx *sql.Tx
}

// New returns a closed Backend.
func New() *Backend {
	return &Backend{}
}

// Open is idempotent on a second call while already open.
func (b *Backend) Open(ctx context.Context, uri string) error {
	if b.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return errs.DriverError{Code: "OPEN", Message: err.Error(), Err: err}
	}

	if err := db.PingContext(ctx); err != nil {
		return errs.DriverError{Code: "OPEN", Message: err.Error(), Err: err}
	}

	b.db = db

	return nil
}

// Close is a no-op on an already-closed Backend.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil

	return err
}

func (b *Backend) querier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if b.tx != nil {
		return b.tx
	}

	return b.db
}

// Execute runs a non-parameterized statement, pushing rows into sink.
func (b *Backend) Execute(ctx context.Context, sqlText string, sink backend.ResultSink) error {
	rows, err := b.querier().QueryContext(ctx, sqlText)
	if err != nil {
		if _, execErr := b.querier().ExecContext(ctx, sqlText); execErr == nil {
			return nil
		}

		return errs.DriverError{Code: "EXEC", Message: err.Error(), Err: err}
	}
	defer rows.Close()

	return drain(rows, sink)
}

func drain(rows *sql.Rows, sink backend.ResultSink) error {
	cols, err := rows.Columns()
	if err != nil {
		return errs.DriverError{Code: "SCAN", Message: err.Error(), Err: err}
	}

	sink.Columns(cols)

	dest := make([]any, len(cols))
	raw := make([]sql.NullString, len(cols))

	for i := range dest {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return errs.DriverError{Code: "SCAN", Message: err.Error(), Err: err}
		}

		values := make([]string, len(cols))
		for i, r := range raw {
			values[i] = r.String
		}

		sink.Row(values)
	}

	return rows.Err()
}

// Prepare compiles sqlText into a reusable Statement.
func (b *Backend) Prepare(ctx context.Context, sqlText string) (backend.Statement, error) {
	var (
		stmt *sql.Stmt
		err  error
	)

	if b.tx != nil {
		stmt, err = b.tx.PrepareContext(ctx, sqlText)
	} else {
		stmt, err = b.db.PrepareContext(ctx, sqlText)
	}

	if err != nil {
		return nil, errs.DriverError{Code: "PREPARE", Message: err.Error(), Err: err}
	}

	return &preparedStatement{stmt: stmt, binds: map[int]any{}}, nil
}

func (b *Backend) Begin(ctx context.Context) error {
	if b.tx != nil {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.DriverError{Code: "BEGIN", Message: err.Error(), Err: err}
	}

	b.tx = tx

	return nil
}

func (b *Backend) Commit(context.Context) error {
	if b.tx == nil {
		return nil
	}

	err := b.tx.Commit()
	b.tx = nil

	if err != nil {
		return errs.DriverError{Code: "COMMIT", Message: err.Error(), Err: err}
	}

	return nil
}

func (b *Backend) Rollback(context.Context) error {
	if b.tx == nil {
		return nil
	}

	err := b.tx.Rollback()
	b.tx = nil

	if err != nil {
		return errs.DriverError{Code: "ROLLBACK", Message: err.Error(), Err: err}
	}

	return nil
}

type preparedStatement struct {
	stmt  *sql.Stmt
	binds map[int]any
	rows  *sql.Rows
	cols  []string
	last  []string
}

func (s *preparedStatement) Bind(index int, value any) error {
	s.binds[index] = value
	return nil
}

func (s *preparedStatement) orderedArgs() []any {
	n := len(s.binds)
	out := make([]any, n)

	for i := 0; i < n; i++ {
		out[i] = s.binds[i+1]
	}

	return out
}

func (s *preparedStatement) Step(ctx context.Context) (backend.StepResult, error) {
	if s.rows == nil {
		rows, err := s.stmt.QueryContext(ctx, s.orderedArgs()...)
		if err != nil {
			if _, execErr := s.stmt.ExecContext(ctx, s.orderedArgs()...); execErr == nil {
				return backend.StepResult{Done: true}, nil
			}

			return backend.StepResult{}, errs.DriverError{Code: "STEP", Message: err.Error(), Err: err}
		}

		cols, err := rows.Columns()
		if err != nil {
			return backend.StepResult{}, errs.DriverError{Code: "STEP", Message: err.Error(), Err: err}
		}

		s.rows = rows
		s.cols = cols
	}

	if !s.rows.Next() {
		return backend.StepResult{Done: true}, s.rows.Err()
	}

	raw := make([]sql.NullString, len(s.cols))
	dest := make([]any, len(s.cols))

	for i := range dest {
		dest[i] = &raw[i]
	}

	if err := s.rows.Scan(dest...); err != nil {
		return backend.StepResult{}, errs.DriverError{Code: "SCAN", Message: err.Error(), Err: err}
	}

	s.last = make([]string, len(s.cols))
	for i, r := range raw {
		s.last[i] = r.String
	}

	return backend.StepResult{Row: true}, nil
}

func (s *preparedStatement) Scan(dst ...any) error {
	for i, d := range dst {
		if i >= len(s.last) {
			break
		}

		switch p := d.(type) {
		case *string:
			*p = s.last[i]
		case *any:
			*p = s.last[i]
		}
	}

	return nil
}

func (s *preparedStatement) Reset() error {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}

	s.last = nil

	return nil
}

func (s *preparedStatement) Finalize() error {
	if s.rows != nil {
		s.rows.Close()
	}

	return s.stmt.Close()
}
