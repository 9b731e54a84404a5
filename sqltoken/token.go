// Package sqltoken models a SQL statement as a flat, ordered sequence
// of tagged tokens rather than a string. A dialect
// compiler later walks that sequence twice: once to rewrite
// dialect-specific shapes (LIMIT/TOP, placeholder style), once to
// serialize it to text. Building statements as tokens instead of
// string concatenation is what lets one statement creator target many
// backends.
package sqltoken

// Kind discriminates the token variants. Go has no tagged union, so
// Token is a single struct with a Kind field and only the fields that
// Kind uses populated, the same idiom Action uses in the store
// package.
type Kind int

const (
	KindCreate Kind = iota
	KindDrop
	KindSelect
	KindDistinct
	KindUpdate
	KindSet
	KindColumns
	KindColumn
	KindTypedColumn
	KindIdentifierColumn
	KindVarcharColumn
	KindValueColumn
	KindFrom
	KindWhere
	KindCondition
	KindOrderBy
	KindAsc
	KindDesc
	KindGroupBy
	KindInsert
	KindValues
	KindValue
	KindRemove
	KindTop
	KindAs
	KindBegin
	KindCommit
	KindRollback
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "CREATE"
	case KindDrop:
		return "DROP"
	case KindSelect:
		return "SELECT"
	case KindDistinct:
		return "DISTINCT"
	case KindUpdate:
		return "UPDATE"
	case KindSet:
		return "SET"
	case KindColumns:
		return "COLUMNS"
	case KindColumn:
		return "COLUMN"
	case KindTypedColumn:
		return "TYPED_COLUMN"
	case KindIdentifierColumn:
		return "IDENTIFIER_COLUMN"
	case KindVarcharColumn:
		return "VARCHAR_COLUMN"
	case KindValueColumn:
		return "VALUE_COLUMN"
	case KindFrom:
		return "FROM"
	case KindWhere:
		return "WHERE"
	case KindCondition:
		return "CONDITION"
	case KindOrderBy:
		return "ORDER_BY"
	case KindAsc:
		return "ASC"
	case KindDesc:
		return "DESC"
	case KindGroupBy:
		return "GROUP_BY"
	case KindInsert:
		return "INSERT"
	case KindValues:
		return "VALUES"
	case KindValue:
		return "VALUE"
	case KindRemove:
		return "REMOVE"
	case KindTop:
		return "TOP"
	case KindAs:
		return "AS"
	case KindBegin:
		return "BEGIN"
	case KindCommit:
		return "COMMIT"
	case KindRollback:
		return "ROLLBACK"
	case KindQuery:
		return "QUERY"
	default:
		return "UNKNOWN"
	}
}

// CondOp is the comparison/connector operator carried by a CONDITION
// token.
type CondOp int

const (
	OpEQ CondOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpIn
	OpAnd
	OpOr
	OpNot
)

// Token is one element of a statement's token sequence. Only the
// fields relevant to Kind are meaningful; the rest are zero.
type Token struct {
	Kind Kind

	// Name carries an identifier: table name, column name, bind
	// parameter name, alias.
	Name string

	// SQLType carries the column's SQL type literal for
	// KindTypedColumn (e.g. "INTEGER", "VARCHAR(255)").
	SQLType string

	// Length carries VARCHAR(N)'s N for KindVarcharColumn.
	Length int

	// PrimaryKey marks KindIdentifierColumn as the table's primary key.
	PrimaryKey bool

	// Op carries the operator for KindCondition.
	Op CondOp

	// Value carries the value of a KindValue or KindValueColumn token,
	// or the right-hand operand of a KindCondition comparison. The
	// serializer binds it through a placeholder, except a bool, which it
	// renders inline as the dialect's literal.
	Value any

	// Values carries the operand list for OpIn conditions; an empty
	// slice is the empty-IN case the dialect compiler rewrites to a
	// constant-false predicate.
	Values []any

	// Limit carries a row cap for KindTop, compiled to TOP N on one
	// dialect and LIMIT N on another.
	Limit int

	// Prefix marks a KindTop token for "TOP n"-splice rendering
	// (spliced right after SELECT/DISTINCT) rather than the default
	// trailing "LIMIT n" form. A dialect's Rewrite pass sets this and
	// relocates the token; Builder.Top never sets it.
	Prefix bool
}

// Statement is an ordered token sequence plus the values passed to
// the Builder's ValueColumn, Value, and Condition calls, in call
// order. IN-list values are carried only on their CONDITION token.
type Statement struct {
	Tokens []Token
	Binds  []any
}
