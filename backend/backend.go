// Package backend defines the abstract connect/prepare/execute
// surface the journal drives persistence through. The core depends
// only on the interfaces here; backend/sqlite, backend/postgres, and
// the in-memory fake backend/memtest are reference implementations.
package backend

import "context"

// ResultSink receives rows from a non-parameterized Execute call, one
// row at a time, as ordered column strings addressable by name via
// Columns.
type ResultSink interface {
	Columns(names []string)
	Row(values []string)
}

// CollectingSink is a ResultSink that buffers every row in memory,
// useful for tests and for small result sets.
type CollectingSink struct {
	ColumnNames []string
	Rows        [][]string
}

func (s *CollectingSink) Columns(names []string) { s.ColumnNames = names }
func (s *CollectingSink) Row(values []string) { s.Rows = append(s.Rows, values) }

// StepResult is what Statement.Step returns: either a row is ready,
// the statement is done, or an error occurred.
type StepResult struct {
	Row  bool
	Done bool
}

// Statement is a prepared, bindable, steppable handle, owned by and
// scoped to the connection that prepared it. It must be Finalized on
// every exit path: success, failure, or abandonment.
type Statement interface {
	Bind(index int, value any) error
	Step(ctx context.Context) (StepResult, error)
	// Scan reads the current row's columns, in SELECT column order,
	// into dst, one destination per column. The reference drivers
	// deliver every column as its text form: they fill *string and
	// *any destinations and leave destinations of other types
	// unchanged.
	Scan(dst ...any) error
	Reset() error
	Finalize() error
}

// Backend is the sole external collaborator the journal directly
// invokes. A concrete implementation is expected to be synchronous
// and single-threaded per connection.
type Backend interface {
	// Open is idempotent on a second call with the store already open.
	Open(ctx context.Context, uri string) error
	// Close is a no-op on a connection already closed.
	Close() error

	// Execute runs a non-parameterized statement, pushing rows into
	// sink as ordered column strings.
	Execute(ctx context.Context, sql string, sink ResultSink) error

	// Prepare compiles sql into a reusable, bindable Statement.
	Prepare(ctx context.Context, sql string) (Statement, error)

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Flusher is implemented by backends that buffer writes. A session
// configured to flush on commit calls Flush after a transaction's
// statements are applied and before Commit returns; drivers that
// apply writes immediately simply don't implement it.
type Flusher interface {
	Flush(ctx context.Context) error
}
