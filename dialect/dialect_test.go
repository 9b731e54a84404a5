package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/dialect"
	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/sqltoken"
)

// selectTopStatement builds "SELECT id FROM t [TOP/LIMIT n]"'s token
// form shared by the LIMIT- and TOP-style placement tests.
func selectTopStatement(n int) sqltoken.Statement {
	return sqltoken.NewBuilder().
		Select().Column("id").From("t").Top(n).
		Build()
}

func TestDialectLimitVsTopPlacement(t *testing.T) {
	sql, _, err := dialect.Compile(dialect.SQLite{}, selectTopStatement(10))
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t LIMIT 10", sql)

	sql, _, err = dialect.Compile(dialect.SQLServer{}, selectTopStatement(10))
	require.NoError(t, err)
	assert.Equal(t, "SELECT TOP 10 id FROM t", sql)
}

func TestSQLServerPlacesTopAfterDistinct(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Select().Distinct().Column("id").From("t").Top(5).
		Build()

	sql, _, err := dialect.Compile(dialect.SQLServer{}, stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT TOP 5 id FROM t", sql)
}

// TestBaseRejectsTopToken exercises the unsupported_token failure: the
// ANSI baseline has no row-cap syntax, so a TOP token is rejected
// rather than silently dropped.
func TestBaseRejectsTopToken(t *testing.T) {
	_, _, err := dialect.Compile(dialect.Base{}, selectTopStatement(10))
	require.Error(t, err)
	assert.IsType(t, errs.UnsupportedTokenError{}, err)
}

func TestEmptyInCompilesToConstantFalse(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Select().Column("id").From("t").
		Where().ConditionIn("id", nil).
		Build()

	sql, binds, err := dialect.Compile(dialect.Base{}, stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE 0=1", sql)
	assert.Empty(t, binds)
}

func TestNonEmptyInBindsEveryValue(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Select().Column("id").From("t").
		Where().ConditionIn("id", []any{int64(1), int64(2), int64(3)}).
		Build()

	sql, binds, err := dialect.Compile(dialect.Base{}, stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE id IN (?, ?, ?)", sql)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, binds)
}

func TestPostgresRenumbersPlaceholders(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Update("person").Set().
		ValueColumn("name", "ada").
		ValueColumn("age", int32(36)).
		Where().Condition("id", sqltoken.OpEQ, int64(1)).
		Build()

	sql, binds, err := dialect.Compile(dialect.Postgres{}, stmt)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE person SET name = $1, age = $2 WHERE id = $3`, sql)
	assert.Equal(t, []any{"ada", int32(36), int64(1)}, binds)
}

func TestSQLiteIdentityColumnUsesAutoincrement(t *testing.T) {
	assert.Contains(t, dialect.SQLite{}.IdentityColumnSQL("id"), "AUTOINCREMENT")
	assert.Contains(t, dialect.Postgres{}.IdentityColumnSQL("id"), "BIGSERIAL")
	assert.Contains(t, dialect.SQLServer{}.IdentityColumnSQL("id"), "IDENTITY(1,1)")
}

func TestBoolLiteralIsDialectChosen(t *testing.T) {
	assert.Equal(t, "1", dialect.SQLite{}.BoolLiteral(true))
	assert.Equal(t, "0", dialect.SQLite{}.BoolLiteral(false))
	assert.Equal(t, "TRUE", dialect.Postgres{}.BoolLiteral(true))
	assert.Equal(t, "FALSE", dialect.Postgres{}.BoolLiteral(false))
}

func TestQuoteIdentLeavesPlainIdentifiersBare(t *testing.T) {
	assert.Equal(t, "person", dialect.Base{}.QuoteIdent("person"))
	assert.Equal(t, `"weird name"`, dialect.Base{}.QuoteIdent("weird name"))
	assert.Equal(t, "[person]", dialect.SQLServer{}.QuoteIdent("person"))
}

func TestIsPlainIdentifier(t *testing.T) {
	assert.True(t, dialect.IsPlainIdentifier("person"))
	assert.True(t, dialect.IsPlainIdentifier("_private"))
	assert.False(t, dialect.IsPlainIdentifier("1person"))
	assert.False(t, dialect.IsPlainIdentifier("person name"))
	assert.False(t, dialect.IsPlainIdentifier(""))
}

func TestSQLServerPlaceholdersAreNamed(t *testing.T) {
	assert.Equal(t, "@p1", dialect.SQLServer{}.Placeholder(1))
	assert.Equal(t, "@p2", dialect.SQLServer{}.Placeholder(2))
}
