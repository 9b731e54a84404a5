// Package dialect compiles a sqltoken.Statement to SQL text in two
// passes: a rewrite pass that lets a concrete dialect splice in
// backend-specific shapes (LIMIT vs TOP, placeholder style, empty-IN
// rewriting), then a serialize pass that renders the rewritten tokens
// to text. The rewrite/serialize split keeps each dialect's "what's
// different" code separate from the shared token-to-string printer
// instead of duplicating the printer per dialect.
package dialect

import "github.com/LerianStudio/oosgo/sqltoken"

// Dialect rewrites a token stream for one backend's SQL flavor before
// it is serialized. The zero-value Base dialect performs no rewrite
// beyond the shared empty-IN pass.
type Dialect interface {
	// Name identifies the dialect for logging and backend selection.
	Name() string

	// Rewrite runs the compile pass: given the original token
	// sequence, return the sequence to serialize. Implementations
	// that don't need a rewrite can return tokens unchanged. A token
	// the dialect explicitly rejects fails with
	// errs.UnsupportedTokenError.
	Rewrite(tokens []sqltoken.Token) ([]sqltoken.Token, error)

	// Placeholder returns the bind-parameter marker for the nth bound
	// value (1-indexed), e.g. "?" for sqlite, "@p1" for sqlserver.
	// Postgres returns "?" here and renumbers the markers to "$1,$2,..."
	// in its PlaceholderRewriter pass.
	Placeholder(n int) string

	// QuoteIdent quotes an identifier in this dialect's syntax.
	// Unquoted identifiers must already be ASCII
	// [A-Za-z_][A-Za-z0-9_]*; a dialect is free to leave such
	// identifiers unquoted or quote them unconditionally.
	QuoteIdent(name string) string

	// IdentityColumnSQL renders the full identity-column declaration
	// for name, e.g. sqlite's `id INTEGER PRIMARY KEY AUTOINCREMENT
	// NOT NULL` vs. Postgres's `id BIGSERIAL PRIMARY KEY NOT NULL`
	// vs. a TOP-style dialect's `[id] BIGINT IDENTITY(1,1) PRIMARY KEY
	// NOT NULL`.
	IdentityColumnSQL(name string) string

	// BoolLiteral renders a boolean value in this dialect's chosen
	// representation.
	BoolLiteral(v bool) string
}

// PlaceholderRewriter is an optional second pass a dialect can
// implement when its placeholder form can't be produced positionally
// token-by-token (e.g. Postgres's $1,$2,... numbering, which this
// module derives by running the rendered "?"-form SQL back through
// Masterminds/squirrel's Dollar formatter rather than hand-rolling
// the renumbering).
type PlaceholderRewriter interface {
	RewritePlaceholders(sql string) (string, error)
}

// Compile runs d's rewrite pass, serializes the result to SQL text,
// and — if d implements PlaceholderRewriter — runs its placeholder
// post-pass, returning the final text and the bind values in the
// order they appear in the rendered string.
func Compile(d Dialect, stmt sqltoken.Statement) (string, []any, error) {
	tokens, err := d.Rewrite(stmt.Tokens)
	if err != nil {
		return "", nil, err
	}

	sql, binds := serialize(d, tokens)

	if pr, ok := d.(PlaceholderRewriter); ok {
		rewritten, err := pr.RewritePlaceholders(sql)
		if err != nil {
			return "", nil, err
		}

		sql = rewritten
	}

	return sql, binds, nil
}

// EmptyInRewrite rewrites every CONDITION token with Op == OpIn and an
// empty Values slice into a constant-false CONDITION: a query built
// against an empty id list must return zero rows rather than emit
// invalid "IN ()" SQL. Every concrete dialect applies this before its
// own rewrite, since the rule is dialect-independent.
func EmptyInRewrite(tokens []sqltoken.Token) []sqltoken.Token {
	out := make([]sqltoken.Token, len(tokens))
	copy(out, tokens)

	for i, t := range out {
		if t.Kind == sqltoken.KindCondition && t.Op == sqltoken.OpIn && len(t.Values) == 0 {
			out[i] = sqltoken.Token{Kind: sqltoken.KindCondition, Op: sqltoken.OpEQ}
		}
	}

	return out
}
