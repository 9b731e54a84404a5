package dialect

import (
	"strconv"
	"strings"

	"github.com/LerianStudio/oosgo/sqltoken"
)

// columnLike reports whether a token kind is one of the column/value
// declaration kinds that a run of several, separated by commas, forms
// a column list, a SET assignment list, or a VALUES literal list.
func columnLike(k sqltoken.Kind) bool {
	switch k {
	case sqltoken.KindColumn, sqltoken.KindTypedColumn, sqltoken.KindIdentifierColumn,
		sqltoken.KindVarcharColumn, sqltoken.KindValueColumn, sqltoken.KindValue:
		return true
	default:
		return false
	}
}

// serialize renders an already-rewritten token sequence to SQL text
// using d's placeholder, quoting, and literal choices, and returns the
// bind values in the order their tokens appear in the rendered string,
// so the execution layer can bind positionally.
//
// Runs of column-like tokens are comma-joined; a run introduced by a
// COLUMNS marker or immediately following VALUES is additionally
// wrapped in parens (CREATE's column list, INSERT's column and values
// lists), while a run following SELECT/DISTINCT or SET is not (SELECT
// projects a bare comma list, UPDATE's SET is a bare assignment list).
func serialize(d Dialect, tokens []sqltoken.Token) (string, []any) {
	var (
		parts []string
		binds []any
	)

	bindN := 0
	bind := func(v any) string {
		bindN++
		binds = append(binds, v)

		return d.Placeholder(bindN)
	}

	render := func(t sqltoken.Token) string {
		switch t.Kind {
		case sqltoken.KindColumn:
			return d.QuoteIdent(t.Name)
		case sqltoken.KindTypedColumn:
			return d.QuoteIdent(t.Name) + " " + t.SQLType
		case sqltoken.KindIdentifierColumn:
			return d.IdentityColumnSQL(t.Name)
		case sqltoken.KindVarcharColumn:
			return d.QuoteIdent(t.Name) + " VARCHAR(" + strconv.Itoa(t.Length) + ")"
		case sqltoken.KindValueColumn:
			return d.QuoteIdent(t.Name) + " = " + bindValue(d, t.Value, bind)
		case sqltoken.KindValue:
			return bindValue(d, t.Value, bind)
		default:
			return ""
		}
	}

	wrapParens := false

	i := 0
	for i < len(tokens) {
		t := tokens[i]

		switch t.Kind {
		case sqltoken.KindCreate:
			parts = append(parts, "CREATE TABLE "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindDrop:
			parts = append(parts, "DROP TABLE "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindSelect:
			parts = append(parts, "SELECT")
			i++
		case sqltoken.KindDistinct:
			parts = append(parts, "DISTINCT")
			i++
		case sqltoken.KindTop:
			if t.Prefix {
				parts = append(parts, "TOP "+strconv.Itoa(t.Limit))
			}
			// non-prefix TOP (LIMIT-style) is spliced by the dialect's
			// Rewrite pass as its own trailing token; see sqlite.go.
			i++
		case sqltoken.KindUpdate:
			parts = append(parts, "UPDATE "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindSet:
			parts = append(parts, "SET")
			i++
		case sqltoken.KindColumns:
			wrapParens = true
			i++
		case sqltoken.KindValues:
			parts = append(parts, "VALUES")
			wrapParens = true
			i++
		case sqltoken.KindFrom:
			parts = append(parts, "FROM "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindWhere:
			parts = append(parts, "WHERE")
			i++
		case sqltoken.KindCondition:
			parts = append(parts, renderCondition(d, t, bind))
			i++
		case sqltoken.KindOrderBy:
			parts = append(parts, "ORDER BY "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindAsc:
			parts = append(parts, "ASC")
			i++
		case sqltoken.KindDesc:
			parts = append(parts, "DESC")
			i++
		case sqltoken.KindGroupBy:
			parts = append(parts, "GROUP BY "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindInsert:
			parts = append(parts, "INSERT INTO "+d.QuoteIdent(t.Name))
			i++
		case sqltoken.KindRemove:
			parts = append(parts, "DELETE")
			i++
		case sqltoken.KindAs:
			parts = append(parts, "AS "+t.Name)
			i++
		case sqltoken.KindBegin:
			parts = append(parts, "BEGIN")
			i++
		case sqltoken.KindCommit:
			parts = append(parts, "COMMIT")
			i++
		case sqltoken.KindRollback:
			parts = append(parts, "ROLLBACK")
			i++
		case sqltoken.KindQuery:
			parts = append(parts, t.Name)
			i++
		default:
			if columnLike(t.Kind) {
				j := i
				var run []string

				for j < len(tokens) && columnLike(tokens[j].Kind) {
					run = append(run, render(tokens[j]))
					j++
				}

				joined := strings.Join(run, ", ")
				if wrapParens {
					joined = "(" + joined + ")"
				}

				parts = append(parts, joined)
				wrapParens = false
				i = j

				continue
			}

			i++
		}
	}

	return strings.Join(parts, " "), binds
}

func bindValue(d Dialect, v any, bind func(any) string) string {
	if bv, ok := v.(bool); ok {
		return d.BoolLiteral(bv)
	}

	return bind(v)
}

func renderCondition(d Dialect, t sqltoken.Token, bind func(any) string) string {
	switch t.Op {
	case sqltoken.OpAnd:
		return "AND"
	case sqltoken.OpOr:
		return "OR"
	case sqltoken.OpIn:
		if len(t.Values) == 0 {
			// empty IN (...) compiles to a constant-false predicate
			// instead of invalid syntax.
			return "0=1"
		}

		phs := make([]string, len(t.Values))
		for i, v := range t.Values {
			phs[i] = bindValue(d, v, bind)
		}

		return d.QuoteIdent(t.Name) + " IN (" + strings.Join(phs, ", ") + ")"
	default:
		if t.Name == "" {
			// the zero-value sentinel EmptyInRewrite leaves behind for
			// what was originally an empty IN (...) predicate.
			return "0=1"
		}

		return d.QuoteIdent(t.Name) + " " + opSymbol(t.Op) + " " + bindValue(d, t.Value, bind)
	}
}

func opSymbol(op sqltoken.CondOp) string {
	switch op {
	case sqltoken.OpEQ:
		return "="
	case sqltoken.OpNE:
		return "<>"
	case sqltoken.OpLT:
		return "<"
	case sqltoken.OpLE:
		return "<="
	case sqltoken.OpGT:
		return ">"
	case sqltoken.OpGE:
		return ">="
	default:
		return "="
	}
}

// IsPlainIdentifier reports whether name matches the unquoted
// identifier grammar, ASCII [A-Za-z_][A-Za-z0-9_]*. A dialect may use
// this to decide whether an identifier needs quoting at all.
func IsPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
