package memtest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/backend"
	"github.com/LerianStudio/oosgo/backend/memtest"
)

func TestOpenCloseAreIdempotent(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()

	require.NoError(t, b.Open(ctx, "mem"))
	require.NoError(t, b.Open(ctx, "mem"))
	assert.Equal(t, 2, b.OpenCalls())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 2, b.CloseCalls())
}

func TestCreateInsertSelect(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()
	require.NoError(t, b.Open(ctx, "mem"))

	sink := &backend.CollectingSink{}
	require.NoError(t, b.Execute(ctx, `CREATE TABLE person (id INTEGER PRIMARY KEY NOT NULL, name VARCHAR(32), age INTEGER)`, sink))

	stmt, err := b.Prepare(ctx, `INSERT INTO person (id, name, age) VALUES (?, ?, ?)`)
	require.NoError(t, err)

	require.NoError(t, stmt.Bind(1, int64(1)))
	require.NoError(t, stmt.Bind(2, "ada"))
	require.NoError(t, stmt.Bind(3, int32(36)))

	res, err := stmt.Step(ctx)
	require.NoError(t, err)
	assert.True(t, res.Done)
	require.NoError(t, stmt.Finalize())

	out := &backend.CollectingSink{}
	require.NoError(t, b.Execute(ctx, `SELECT id, name, age FROM person`, out))

	require.Len(t, out.Rows, 1)
	assert.Equal(t, []string{"1", "ada", "36"}, out.Rows[0])
}

func TestUpdateAndDeleteByWhereID(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()
	require.NoError(t, b.Open(ctx, "mem"))

	require.NoError(t, b.Execute(ctx, `CREATE TABLE person (id INTEGER PRIMARY KEY NOT NULL, name VARCHAR(32))`, &backend.CollectingSink{}))

	insert, err := b.Prepare(ctx, `INSERT INTO person (id, name) VALUES (?, ?)`)
	require.NoError(t, err)
	require.NoError(t, insert.Bind(1, int64(1)))
	require.NoError(t, insert.Bind(2, "ada"))
	_, err = insert.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, insert.Finalize())

	update, err := b.Prepare(ctx, `UPDATE person SET name = ? WHERE id = ?`)
	require.NoError(t, err)
	require.NoError(t, update.Bind(1, "bob"))
	require.NoError(t, update.Bind(2, int64(1)))
	_, err = update.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, update.Finalize())

	sink := &backend.CollectingSink{}
	require.NoError(t, b.Execute(ctx, `SELECT id, name FROM person`, sink))
	require.Len(t, sink.Rows, 1)
	assert.Equal(t, "bob", sink.Rows[0][1])

	del, err := b.Prepare(ctx, `DELETE FROM person WHERE id = ?`)
	require.NoError(t, err)
	require.NoError(t, del.Bind(1, int64(1)))
	_, err = del.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, del.Finalize())

	empty := &backend.CollectingSink{}
	require.NoError(t, b.Execute(ctx, `SELECT id, name FROM person`, empty))
	assert.Empty(t, empty.Rows)
}

func TestEmptyInPredicateMatchesNoRows(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()
	require.NoError(t, b.Open(ctx, "mem"))

	require.NoError(t, b.Execute(ctx, `CREATE TABLE person (id INTEGER PRIMARY KEY NOT NULL, name VARCHAR(32))`, &backend.CollectingSink{}))

	insert, err := b.Prepare(ctx, `INSERT INTO person (id, name) VALUES (?, ?)`)
	require.NoError(t, err)
	require.NoError(t, insert.Bind(1, int64(1)))
	require.NoError(t, insert.Bind(2, "ada"))
	_, err = insert.Step(ctx)
	require.NoError(t, err)
	require.NoError(t, insert.Finalize())

	sink := &backend.CollectingSink{}
	require.NoError(t, b.Execute(ctx, `SELECT id, name FROM person WHERE 0=1`, sink))
	assert.Empty(t, sink.Rows)
}

func TestFailOnExecuteContainsInjectsDriverError(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()
	require.NoError(t, b.Open(ctx, "mem"))
	b.FailOnExecuteContains = "person"

	err := b.Execute(ctx, `CREATE TABLE person (id INTEGER PRIMARY KEY NOT NULL)`, &backend.CollectingSink{})
	require.Error(t, err)
}

func TestLeakedStatementsAreCountedUntilFinalized(t *testing.T) {
	ctx := context.Background()
	b := memtest.New()
	require.NoError(t, b.Open(ctx, "mem"))

	stmt, err := b.Prepare(ctx, `SELECT 1`)
	require.NoError(t, err)
	assert.Equal(t, 1, b.LeakedStatements())

	require.NoError(t, stmt.Finalize())
	assert.Equal(t, 0, b.LeakedStatements())
}
