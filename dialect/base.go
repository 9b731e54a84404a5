package dialect

import (
	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/sqltoken"
)

// Base is the default dialect: no token rewriting beyond the shared
// empty-IN pass, "?" placeholders, double-quoted identifiers, and 0/1
// integer booleans. It is the ANSI-adjacent baseline every concrete
// dialect starts from. ANSI SQL has no row-cap syntax, so Base
// rejects TOP tokens outright rather than dropping them.
type Base struct{}

func (Base) Name() string { return "ansi" }

func (Base) Rewrite(tokens []sqltoken.Token) ([]sqltoken.Token, error) {
	for _, t := range tokens {
		if t.Kind == sqltoken.KindTop {
			return nil, errs.UnsupportedTokenError{Dialect: "ansi", Token: t.Kind.String()}
		}
	}

	return EmptyInRewrite(tokens), nil
}

func (Base) Placeholder(int) string { return "?" }

func (Base) QuoteIdent(name string) string {
	if IsPlainIdentifier(name) {
		return name
	}

	return `"` + name + `"`
}

func (Base) IdentityColumnSQL(name string) string {
	return Base{}.QuoteIdent(name) + " INTEGER PRIMARY KEY NOT NULL"
}

func (Base) BoolLiteral(v bool) string {
	if v {
		return "1"
	}

	return "0"
}
