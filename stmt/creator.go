// Package stmt implements the statement creator: for a given entity
// shape and action kind, it projects a
// CREATE/SELECT/INSERT/UPDATE/DELETE sqltoken.Statement, using the
// serialization protocol's field-order contract to keep column order
// identical to the order values are captured and replayed in.
package stmt

import (
	"strconv"

	"github.com/LerianStudio/oosgo/serialize"
	"github.com/LerianStudio/oosgo/sqltoken"
)

// IdentityColumn is the conventional name of an entity's identity
// column.
const IdentityColumn = "id"

// SQLType maps a serialized field's primitive kind to its column SQL
// type literal. dialectName selects the
// handful of dialect-chosen representations (bool, double); every
// other primitive maps identically across dialects.
func SQLType(dialectName string, f serialize.Field) string {
	switch f.Kind {
	case serialize.KindChar, serialize.KindShort, serialize.KindInt, serialize.KindLong,
		serialize.KindUChar, serialize.KindUShort, serialize.KindUInt, serialize.KindULong:
		return "INTEGER"
	case serialize.KindBool:
		if dialectName == "postgres" {
			return "BOOLEAN"
		}

		return "INTEGER"
	case serialize.KindFloat:
		return "REAL"
	case serialize.KindDouble:
		switch dialectName {
		case "postgres":
			return "DOUBLE PRECISION"
		case "sqlserver":
			return "FLOAT"
		default:
			return "REAL"
		}
	case serialize.KindFixedBytes:
		return "CHAR"
	case serialize.KindVarchar:
		return "VARCHAR"
	case serialize.KindString:
		return "TEXT"
	case serialize.KindDecimal:
		return "NUMERIC"
	case serialize.KindObjectPtr:
		// foreign key: the referenced prototype's identity column type.
		return "BIGINT"
	default:
		return "TEXT"
	}
}

// columnFields returns the shape with container fields stripped;
// containers are realized as join tables, never as a column on the
// owning entity's own table.
func columnFields(fields []serialize.Field) []serialize.Field {
	out := make([]serialize.Field, 0, len(fields))

	for _, f := range fields {
		if f.Kind == serialize.KindContainer {
			continue
		}

		out = append(out, f)
	}

	return out
}

// Create builds `CREATE TABLE <typeName> (...)` from shape, marking
// the identity column PRIMARY KEY NOT NULL ahead of every other
// field, in shape order.
func Create(dialectName, typeName string, shape []serialize.Field) sqltoken.Statement {
	b := sqltoken.NewBuilder().Create(typeName).Columns()
	b.IdentifierColumn(IdentityColumn, SQLType(dialectName, serialize.Field{Kind: serialize.KindLong}))

	for _, f := range columnFields(shape) {
		appendColumnDecl(b, dialectName, f)
	}

	return b.Build()
}

func appendColumnDecl(b *sqltoken.Builder, dialectName string, f serialize.Field) {
	switch f.Kind {
	case serialize.KindVarchar:
		b.VarcharColumn(f.ID, f.Width)
	case serialize.KindFixedBytes:
		b.TypedColumn(f.ID, "CHAR("+strconv.Itoa(f.Width)+")")
	default:
		b.TypedColumn(f.ID, SQLType(dialectName, f))
	}
}

// Drop builds `DROP TABLE <typeName>`.
func Drop(typeName string) sqltoken.Statement {
	return sqltoken.NewBuilder().Drop(typeName).Build()
}

// Select builds `SELECT <cols> FROM <typeName> [WHERE id = ?]`. When
// id is nil, no WHERE clause is emitted (select-all). shape supplies
// the column list in the same order CREATE declared it, plus the
// identity column first.
func Select(typeName string, shape []serialize.Field, id *int64) sqltoken.Statement {
	b := sqltoken.NewBuilder().Select().Column(IdentityColumn)

	for _, f := range columnFields(shape) {
		b.Column(f.ID)
	}

	b.From(typeName)

	if id != nil {
		b.Where().Condition(IdentityColumn, sqltoken.OpEQ, *id)
	}

	return b.Build()
}

// Insert builds `INSERT INTO <typeName> (<cols>) VALUES (<phs>)`.
// Placeholders follow shape order (with the identity value first),
// matching the serialization protocol's ordering contract.
func Insert(typeName string, id int64, shape []serialize.Field, values []serialize.FieldValue) sqltoken.Statement {
	b := sqltoken.NewBuilder().Insert(typeName).Columns()
	b.Column(IdentityColumn)

	for _, f := range columnFields(shape) {
		b.Column(f.ID)
	}

	b.Values()
	b.Value(id)

	byID := indexValues(values)
	for _, f := range columnFields(shape) {
		b.Value(byID[f.ID])
	}

	return b.Build()
}

// Update builds `UPDATE <typeName> SET <col>=<ph>,... WHERE id = ?`
// from the entity's current field vector.
func Update(typeName string, id int64, shape []serialize.Field, values []serialize.FieldValue) sqltoken.Statement {
	b := sqltoken.NewBuilder().Update(typeName).Set()

	byID := indexValues(values)
	for _, f := range columnFields(shape) {
		b.ValueColumn(f.ID, byID[f.ID])
	}

	b.Where().Condition(IdentityColumn, sqltoken.OpEQ, id)

	return b.Build()
}

// Delete builds `DELETE FROM <typeName> WHERE id = ?`.
func Delete(typeName string, id int64) sqltoken.Statement {
	return sqltoken.NewBuilder().Remove().From(typeName).
		Where().Condition(IdentityColumn, sqltoken.OpEQ, id).
		Build()
}

func indexValues(values []serialize.FieldValue) map[string]any {
	out := make(map[string]any, len(values))
	for _, v := range values {
		out[v.ID] = v.Value
	}

	return out
}
