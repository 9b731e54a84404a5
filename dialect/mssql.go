package dialect

import (
	"strconv"

	"github.com/LerianStudio/oosgo/sqltoken"
)

// SQLServer is the "TOP n" style of row capping: it splices the cap
// right after SELECT/DISTINCT instead of trailing it after ORDER BY,
// brackets identifiers, and uses "@pN" named placeholders.
type SQLServer struct{}

func (SQLServer) Name() string { return "sqlserver" }

func (SQLServer) Rewrite(tokens []sqltoken.Token) ([]sqltoken.Token, error) {
	return spliceTopPrefix(EmptyInRewrite(tokens)), nil
}

func (SQLServer) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func (SQLServer) QuoteIdent(name string) string {
	return "[" + name + "]"
}

func (SQLServer) IdentityColumnSQL(name string) string {
	return SQLServer{}.QuoteIdent(name) + " BIGINT IDENTITY(1,1) PRIMARY KEY NOT NULL"
}

func (SQLServer) BoolLiteral(v bool) string {
	if v {
		return "1"
	}

	return "0"
}

// spliceTopPrefix relocates a TOP token to sit right after the
// SELECT (or DISTINCT, if present) token it belongs to, rendering as
// "SELECT TOP n" rather than a trailing "LIMIT n".
func spliceTopPrefix(tokens []sqltoken.Token) []sqltoken.Token {
	var top *sqltoken.Token

	out := make([]sqltoken.Token, 0, len(tokens))

	for _, t := range tokens {
		if t.Kind == sqltoken.KindTop {
			cp := t
			cp.Prefix = true
			top = &cp

			continue
		}

		out = append(out, t)
	}

	if top == nil {
		return out
	}

	result := make([]sqltoken.Token, 0, len(out)+1)

	inserted := false

	for i, t := range out {
		result = append(result, t)

		if inserted {
			continue
		}

		switch t.Kind {
		case sqltoken.KindSelect:
			// TOP follows DISTINCT when both are present: the splice
			// waits for the DISTINCT token in that case.
			if i+1 < len(out) && out[i+1].Kind == sqltoken.KindDistinct {
				continue
			}

			result = append(result, *top)
			inserted = true
		case sqltoken.KindDistinct:
			result = append(result, *top)
			inserted = true
		}
	}

	if !inserted {
		result = append([]sqltoken.Token{*top}, result...)
	}

	return result
}
