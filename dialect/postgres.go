package dialect

import (
	"github.com/Masterminds/squirrel"

	"github.com/LerianStudio/oosgo/sqltoken"
)

// Postgres targets jackc/pgx's stdlib driver: native BOOLEAN,
// double-quoted identifiers, BIGSERIAL-typed identities declared
// PRIMARY KEY NOT NULL, and LIMIT-style TOP, same as SQLite. Placeholders are rendered as "?" by the shared serializer
// and then renumbered to "$1,$2,..." by squirrel.Dollar, the same
// finishing step account.postgresql.go applies to a squirrel builder
// (`.PlaceholderFormat(squirrel.Dollar)`), reused here instead of
// hand-rolling positional renumbering.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Rewrite(tokens []sqltoken.Token) ([]sqltoken.Token, error) {
	return spliceLimitTrailing(EmptyInRewrite(tokens)), nil
}

func (Postgres) Placeholder(int) string { return "?" }

func (Postgres) QuoteIdent(name string) string {
	if IsPlainIdentifier(name) {
		return name
	}

	return `"` + name + `"`
}

func (Postgres) IdentityColumnSQL(name string) string {
	return Postgres{}.QuoteIdent(name) + " BIGSERIAL PRIMARY KEY NOT NULL"
}

func (Postgres) BoolLiteral(v bool) string {
	if v {
		return "TRUE"
	}

	return "FALSE"
}

// RewritePlaceholders renumbers the "?" markers serialize() produced
// into Postgres's "$1, $2, ..." form via squirrel.Dollar.
func (Postgres) RewritePlaceholders(sql string) (string, error) {
	return squirrel.Dollar.ReplacePlaceholders(sql)
}
