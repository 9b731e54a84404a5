package stmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/dialect"
	"github.com/LerianStudio/oosgo/serialize"
	"github.com/LerianStudio/oosgo/sqltoken"
	"github.com/LerianStudio/oosgo/stmt"
)

// personShape is the fixture shape shared across this package's
// tests: person{id, name varchar(32), age}.
func personShape() []serialize.Field {
	return []serialize.Field{
		{ID: "name", Kind: serialize.KindVarchar, Width: 32},
		{ID: "age", Kind: serialize.KindInt},
	}
}

func compile(t *testing.T, d dialect.Dialect, s sqltoken.Statement) (string, []any) {
	t.Helper()

	sql, binds, err := dialect.Compile(d, s)
	require.NoError(t, err)

	return sql, binds
}

func TestCreateMarksIdentityColumnPrimaryKey(t *testing.T) {
	sql, _ := compile(t, dialect.SQLite{}, stmt.Create("sqlite", "person", personShape()))

	assert.Equal(t, `CREATE TABLE person (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, name VARCHAR(32), age INTEGER)`, sql)
}

func TestCreateSkipsContainerFields(t *testing.T) {
	shape := append(personShape(), serialize.Field{ID: "reports", Kind: serialize.KindContainer, Ref: "employee"})

	sql, _ := compile(t, dialect.SQLite{}, stmt.Create("sqlite", "person", shape))

	assert.NotContains(t, sql, "reports", "container fields are realized as join tables, not columns")
}

func TestSelectWithAndWithoutID(t *testing.T) {
	sql, binds := compile(t, dialect.Base{}, stmt.Select("person", personShape(), nil))
	assert.Equal(t, `SELECT id, name, age FROM person`, sql)
	assert.Empty(t, binds)

	id := int64(1)
	sql, binds = compile(t, dialect.Base{}, stmt.Select("person", personShape(), &id))
	assert.Equal(t, `SELECT id, name, age FROM person WHERE id = ?`, sql)
	assert.Equal(t, []any{int64(1)}, binds)
}

func TestInsertOrdersValuesByShape(t *testing.T) {
	values := []serialize.FieldValue{
		{ID: "age", Value: int32(36)},
		{ID: "name", Value: serialize.Varchar{Value: "ada", Max: 32}},
	}

	sql, binds := compile(t, dialect.Base{}, stmt.Insert("person", 1, personShape(), values))

	assert.Equal(t, `INSERT INTO person (id, name, age) VALUES (?, ?, ?)`, sql)
	assert.Equal(t, []any{int64(1), serialize.Varchar{Value: "ada", Max: 32}, int32(36)}, binds)
}

func TestUpdateEmitsSetAndWhere(t *testing.T) {
	values := []serialize.FieldValue{
		{ID: "name", Value: serialize.Varchar{Value: "bob", Max: 32}},
		{ID: "age", Value: int32(41)},
	}

	sql, binds := compile(t, dialect.Base{}, stmt.Update("person", 1, personShape(), values))

	assert.Equal(t, `UPDATE person SET name = ?, age = ? WHERE id = ?`, sql)
	assert.Equal(t, []any{serialize.Varchar{Value: "bob", Max: 32}, int32(41), int64(1)}, binds)
}

func TestDeleteEmitsWhereID(t *testing.T) {
	sql, binds := compile(t, dialect.Base{}, stmt.Delete("person", 1))

	assert.Equal(t, `DELETE FROM person WHERE id = ?`, sql)
	assert.Equal(t, []any{int64(1)}, binds)
}

func TestContainerCreateAddsPositionOnlyForListKind(t *testing.T) {
	setSQL, _ := compile(t, dialect.Base{}, stmt.ContainerCreate("department", "employees", serialize.SetContainer))
	assert.NotContains(t, setSQL, "position")

	listSQL, _ := compile(t, dialect.Base{}, stmt.ContainerCreate("department", "employees", serialize.ListContainer))
	assert.Contains(t, listSQL, "position")
}

func TestContainerTableNaming(t *testing.T) {
	assert.Equal(t, "department_employees", stmt.ContainerTableName("department", "employees"))
}

func TestContainerInsertAndDelete(t *testing.T) {
	sql, binds := compile(t, dialect.Base{}, stmt.ContainerInsert("department", "employees", serialize.SetContainer, 1, 2, -1))
	assert.Equal(t, `INSERT INTO department_employees (owner_id, item_id) VALUES (?, ?)`, sql)
	assert.Equal(t, []any{int64(1), int64(2)}, binds)

	sql, _ = compile(t, dialect.Base{}, stmt.ContainerDelete("department", "employees", 1, 2))
	assert.Equal(t, `DELETE FROM department_employees WHERE owner_id = ? AND item_id = ?`, sql)
}

func TestSQLTypeMapping(t *testing.T) {
	assert.Equal(t, "INTEGER", stmt.SQLType("sqlite", serialize.Field{Kind: serialize.KindInt}))
	assert.Equal(t, "REAL", stmt.SQLType("sqlite", serialize.Field{Kind: serialize.KindDouble}))
	assert.Equal(t, "DOUBLE PRECISION", stmt.SQLType("postgres", serialize.Field{Kind: serialize.KindDouble}))
	assert.Equal(t, "BOOLEAN", stmt.SQLType("postgres", serialize.Field{Kind: serialize.KindBool}))
	assert.Equal(t, "INTEGER", stmt.SQLType("sqlite", serialize.Field{Kind: serialize.KindBool}))
	assert.Equal(t, "NUMERIC", stmt.SQLType("sqlite", serialize.Field{Kind: serialize.KindDecimal}))
	assert.Equal(t, "BIGINT", stmt.SQLType("sqlite", serialize.Field{Kind: serialize.KindObjectPtr}))
}
