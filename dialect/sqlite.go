package dialect

import (
	"strconv"

	"github.com/LerianStudio/oosgo/sqltoken"
)

// SQLite is the default embedded backend's dialect: "?" placeholders,
// double-quoted identifiers, INTEGER PRIMARY KEY AUTOINCREMENT
// identities, and a trailing "LIMIT n" splice for a TOP token.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Rewrite(tokens []sqltoken.Token) ([]sqltoken.Token, error) {
	return spliceLimitTrailing(EmptyInRewrite(tokens)), nil
}

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) QuoteIdent(name string) string {
	if IsPlainIdentifier(name) {
		return name
	}

	return `"` + name + `"`
}

func (SQLite) IdentityColumnSQL(name string) string {
	return SQLite{}.QuoteIdent(name) + " INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL"
}

func (SQLite) BoolLiteral(v bool) string {
	if v {
		return "1"
	}

	return "0"
}

// spliceLimitTrailing moves a TOP token to the end of the statement
// as "LIMIT n"; dialects that want TOP n spliced right after
// SELECT/DISTINCT instead use spliceTopPrefix (see mssql.go).
func spliceLimitTrailing(tokens []sqltoken.Token) []sqltoken.Token {
	out := make([]sqltoken.Token, 0, len(tokens))

	var top *sqltoken.Token

	for _, t := range tokens {
		if t.Kind == sqltoken.KindTop {
			cp := t
			top = &cp

			continue
		}

		out = append(out, t)
	}

	if top != nil {
		out = append(out, sqltoken.Token{Kind: sqltoken.KindQuery, Name: "LIMIT " + strconv.Itoa(top.Limit)})
	}

	return out
}
