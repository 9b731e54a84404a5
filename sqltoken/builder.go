package sqltoken

// Builder accumulates a token sequence fluently; each method appends
// one token and returns the receiver, mirroring the statement
// creator's need to emit tokens in a single linear pass over an
// entity's serialize walk.
type Builder struct {
	stmt Statement
}

// NewBuilder starts an empty token sequence.
func NewBuilder() *Builder { return &Builder{} }

// Build returns the accumulated statement.
func (b *Builder) Build() Statement { return b.stmt }

func (b *Builder) push(t Token) *Builder {
	b.stmt.Tokens = append(b.stmt.Tokens, t)
	return b
}

func (b *Builder) Create(table string) *Builder { return b.push(Token{Kind: KindCreate, Name: table}) }
func (b *Builder) Drop(table string) *Builder { return b.push(Token{Kind: KindDrop, Name: table}) }
func (b *Builder) Select() *Builder { return b.push(Token{Kind: KindSelect}) }
func (b *Builder) Distinct() *Builder { return b.push(Token{Kind: KindDistinct}) }
func (b *Builder) Update(table string) *Builder { return b.push(Token{Kind: KindUpdate, Name: table}) }
func (b *Builder) Set() *Builder { return b.push(Token{Kind: KindSet}) }
func (b *Builder) Columns() *Builder { return b.push(Token{Kind: KindColumns}) }
func (b *Builder) Column(name string) *Builder { return b.push(Token{Kind: KindColumn, Name: name}) }

// TypedColumn emits a column declaration for CREATE TABLE.
func (b *Builder) TypedColumn(name, sqlType string) *Builder {
	return b.push(Token{Kind: KindTypedColumn, Name: name, SQLType: sqlType})
}

// IdentifierColumn emits the primary-key identity column.
func (b *Builder) IdentifierColumn(name, sqlType string) *Builder {
	return b.push(Token{Kind: KindIdentifierColumn, Name: name, SQLType: sqlType, PrimaryKey: true})
}

// VarcharColumn emits a bounded-length text column declaration.
func (b *Builder) VarcharColumn(name string, length int) *Builder {
	return b.push(Token{Kind: KindVarcharColumn, Name: name, Length: length})
}

// ValueColumn emits a column name paired with a bound value in an
// INSERT/UPDATE's value list; the value itself is tracked in Binds so
// the dialect compiler can decide the placeholder form.
func (b *Builder) ValueColumn(name string, value any) *Builder {
	b.stmt.Binds = append(b.stmt.Binds, value)
	return b.push(Token{Kind: KindValueColumn, Name: name, Value: value})
}

func (b *Builder) From(table string) *Builder { return b.push(Token{Kind: KindFrom, Name: table}) }
func (b *Builder) Where() *Builder { return b.push(Token{Kind: KindWhere}) }

// Condition emits a comparison against a bound value.
func (b *Builder) Condition(column string, op CondOp, value any) *Builder {
	b.stmt.Binds = append(b.stmt.Binds, value)
	return b.push(Token{Kind: KindCondition, Name: column, Op: op, Value: value})
}

// ConditionIn emits an IN predicate; an empty values slice is the
// empty-IN edge case the dialect compiler rewrites to constant-false
// rather than emitting syntactically invalid "IN ()".
func (b *Builder) ConditionIn(column string, values []any) *Builder {
	return b.push(Token{Kind: KindCondition, Name: column, Op: OpIn, Values: values})
}

func (b *Builder) And() *Builder { return b.push(Token{Kind: KindCondition, Op: OpAnd}) }
func (b *Builder) Or() *Builder { return b.push(Token{Kind: KindCondition, Op: OpOr}) }

func (b *Builder) OrderBy(column string) *Builder {
	return b.push(Token{Kind: KindOrderBy, Name: column})
}
func (b *Builder) Asc() *Builder { return b.push(Token{Kind: KindAsc}) }
func (b *Builder) Desc() *Builder { return b.push(Token{Kind: KindDesc}) }

func (b *Builder) GroupBy(column string) *Builder {
	return b.push(Token{Kind: KindGroupBy, Name: column})
}

func (b *Builder) Insert(table string) *Builder { return b.push(Token{Kind: KindInsert, Name: table}) }
func (b *Builder) Values() *Builder { return b.push(Token{Kind: KindValues}) }

// Value emits a single literal inside a VALUES list.
func (b *Builder) Value(v any) *Builder {
	b.stmt.Binds = append(b.stmt.Binds, v)
	return b.push(Token{Kind: KindValue, Value: v})
}

func (b *Builder) Remove() *Builder { return b.push(Token{Kind: KindRemove}) }

// Top requests a row cap; the dialect compiler splices this as
// TOP n after SELECT or as a trailing LIMIT n, per dialect.
func (b *Builder) Top(n int) *Builder { return b.push(Token{Kind: KindTop, Limit: n}) }

func (b *Builder) As(alias string) *Builder { return b.push(Token{Kind: KindAs, Name: alias}) }

func (b *Builder) Begin() *Builder { return b.push(Token{Kind: KindBegin}) }
func (b *Builder) Commit() *Builder { return b.push(Token{Kind: KindCommit}) }
func (b *Builder) Rollback() *Builder { return b.push(Token{Kind: KindRollback}) }

// Query wraps a raw, already-composed fragment (e.g. a subquery) as a
// single opaque token, the escape hatch for hand-written SQL inside
// an otherwise token-built statement.
func (b *Builder) Query(raw string) *Builder { return b.push(Token{Kind: KindQuery, Name: raw}) }
