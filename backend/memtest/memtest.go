// Package memtest is a hand-written in-memory backend.Backend fake.
// A database/sql mock doesn't fit here: the test suites need to drive
// the backend.Backend contract itself (prepare/bind/step), not a
// database/sql façade sitting on top of it.
//
// It keeps a simple in-memory relation per table name and evaluates
// just enough of the SQL this module emits (CREATE/DROP/INSERT/
// UPDATE/SELECT/DELETE with "?" placeholders and WHERE id = ?/IN) to
// exercise the journal, statement creator, and dialect compiler end
// to end without a real driver dependency.
package memtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/LerianStudio/oosgo/backend"
	"github.com/LerianStudio/oosgo/internal/errs"
)

// table is a bag of rows, not necessarily keyed by a single identity
// column: an entity's own table has one (the conventional "id"), but
// a container's join table does not, so rows are stored as a plain
// slice matched by WHERE-clause evaluation, the same as a real engine
// would scan them.
type table struct {
	columns []string
	rows    []map[string]any
}

// Backend is the in-memory fake. The contract is single-threaded per
// connection, but it guards itself with a mutex anyway since tests
// sometimes share one across goroutines.
type Backend struct {
	mu         sync.Mutex
	open       bool
	inTxn      bool
	tables     map[string]*table
	snapshot   map[string]*table
	openCalls  int
	closeCalls int
	flushCalls int

	// prepared tracks live (unfinalized) statements so tests can
	// detect leaks.
	prepared map[*stmt]struct{}

	// FailOnExecuteContains, when non-empty, makes Execute/Step return
	// a DriverError for any SQL containing the substring, simulating a
	// driver failure partway through a commit.
	FailOnExecuteContains string
}

// New returns a closed, empty fake.
func New() *Backend {
	return &Backend{tables: make(map[string]*table), prepared: make(map[*stmt]struct{})}
}

func (b *Backend) Open(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.openCalls++
	b.open = true

	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closeCalls++
	b.open = false

	return nil
}

// OpenCalls/CloseCalls let tests assert double-open/double-close
// idempotence.
func (b *Backend) OpenCalls() int { b.mu.Lock(); defer b.mu.Unlock(); return b.openCalls }
func (b *Backend) CloseCalls() int { b.mu.Lock(); defer b.mu.Unlock(); return b.closeCalls }

// LeakedStatements reports how many prepared statements were never
// finalized, for the leak-detection testable property.
func (b *Backend) LeakedStatements() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.prepared)
}

// cloneTables deep-copies every table's row set, so a snapshot taken
// at Begin is unaffected by in-place mutations execUpdate/execInsert/
// execDelete make to the live tables afterward.
func cloneTables(tables map[string]*table) map[string]*table {
	out := make(map[string]*table, len(tables))

	for name, tb := range tables {
		cols := make([]string, len(tb.columns))
		copy(cols, tb.columns)

		rows := make([]map[string]any, len(tb.rows))
		for i, row := range tb.rows {
			rows[i] = make(map[string]any, len(row))
			for k, v := range row {
				rows[i][k] = v
			}
		}

		out[name] = &table{columns: cols, rows: rows}
	}

	return out
}

// Begin snapshots every table's current row set so a later Rollback
// can restore it. A real driver would rely on its own transaction log
// for this; this fake has no WAL to replay, so it keeps the snapshot
// in memory instead.
func (b *Backend) Begin(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inTxn = true
	b.snapshot = cloneTables(b.tables)

	return nil
}

func (b *Backend) Commit(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inTxn = false
	b.snapshot = nil

	return nil
}

// Rollback restores every table to its state at the last Begin,
// undoing any INSERT/UPDATE/DELETE the fake already applied while the
// transaction was open: a mid-commit driver failure must leave the
// backend untouched.
func (b *Backend) Rollback(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inTxn = false

	if b.snapshot != nil {
		b.tables = b.snapshot
		b.snapshot = nil
	}

	return nil
}

// Flush implements backend.Flusher. The fake applies writes
// immediately, so Flush only counts calls, letting tests assert the
// flush-before-commit ordering a buffered driver would rely on.
func (b *Backend) Flush(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.flushCalls++

	return nil
}

// FlushCalls reports how many times Flush ran.
func (b *Backend) FlushCalls() int { b.mu.Lock(); defer b.mu.Unlock(); return b.flushCalls }

func (b *Backend) shouldFail(sql string) error {
	if b.FailOnExecuteContains != "" && strings.Contains(sql, b.FailOnExecuteContains) {
		return errs.DriverError{Code: "FAKE", Message: "injected failure executing: " + sql}
	}

	return nil
}

// Execute runs one non-parameterized statement (only CREATE/DROP and
// id-less SELECT are meaningful without binds in this fake).
func (b *Backend) Execute(_ context.Context, sql string, sink backend.ResultSink) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.shouldFail(sql); err != nil {
		return err
	}

	return b.exec(sql, nil, sink)
}

// Prepare compiles sql into a reusable *stmt; binds are supplied
// later via Bind.
func (b *Backend) Prepare(_ context.Context, sql string) (backend.Statement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &stmt{backend: b, sql: sql, binds: map[int]any{}}
	b.prepared[s] = struct{}{}

	return s, nil
}

type stmt struct {
	backend *Backend
	sql     string
	binds   map[int]any
	result  *backend.CollectingSink
	pos     int
}

func (s *stmt) Bind(index int, value any) error {
	s.binds[index] = value
	return nil
}

func (s *stmt) Step(_ context.Context) (backend.StepResult, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if err := s.backend.shouldFail(s.sql); err != nil {
		return backend.StepResult{}, err
	}

	if s.result == nil {
		sink := &backend.CollectingSink{}
		if err := s.backend.exec(s.sql, s.orderedBinds(), sink); err != nil {
			return backend.StepResult{}, err
		}

		s.result = sink
	}

	if s.pos >= len(s.result.Rows) {
		return backend.StepResult{Done: true}, nil
	}

	s.pos++

	return backend.StepResult{Row: true}, nil
}

func (s *stmt) orderedBinds() []any {
	out := make([]any, len(s.binds))
	for i := range out {
		out[i] = s.binds[i+1]
	}

	return out
}

func (s *stmt) Scan(dst ...any) error {
	if s.result == nil || s.pos == 0 || s.pos > len(s.result.Rows) {
		return fmt.Errorf("memtest: scan without a successful step")
	}

	row := s.result.Rows[s.pos-1]
	for i, d := range dst {
		if i >= len(row) {
			break
		}

		switch p := d.(type) {
		case *string:
			*p = row[i]
		case *any:
			*p = row[i]
		}
	}

	return nil
}

func (s *stmt) Reset() error {
	s.pos = 0
	s.result = nil

	return nil
}

func (s *stmt) Finalize() error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	delete(s.backend.prepared, s)
	return nil
}
