package sqltoken_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LerianStudio/oosgo/sqltoken"
)

func TestBuilderAccumulatesTokensInCallOrder(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Select().Column("id").Column("name").
		From("person").
		Where().Condition("id", sqltoken.OpEQ, int64(1)).
		Build()

	kinds := make([]sqltoken.Kind, len(stmt.Tokens))
	for i, tok := range stmt.Tokens {
		kinds[i] = tok.Kind
	}

	assert.Equal(t, []sqltoken.Kind{
		sqltoken.KindSelect, sqltoken.KindColumn, sqltoken.KindColumn,
		sqltoken.KindFrom, sqltoken.KindWhere, sqltoken.KindCondition,
	}, kinds)
}

func TestBuilderTracksBindsInVisitationOrder(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Insert("person").Columns().Column("name").Column("age").
		Values().Value("ada").Value(int32(36)).
		Build()

	assert.Equal(t, []any{"ada", int32(36)}, stmt.Binds)
}

func TestConditionInEmptyValuesIsPreserved(t *testing.T) {
	stmt := sqltoken.NewBuilder().
		Select().Column("id").From("person").
		Where().ConditionIn("id", nil).
		Build()

	var cond sqltoken.Token

	for _, tok := range stmt.Tokens {
		if tok.Kind == sqltoken.KindCondition {
			cond = tok
		}
	}

	assert.Equal(t, sqltoken.OpIn, cond.Op)
	assert.Empty(t, cond.Values)
}

func TestTopCarriesLimitWithoutPrefixByDefault(t *testing.T) {
	stmt := sqltoken.NewBuilder().Select().Column("id").From("person").Top(10).Build()

	var top sqltoken.Token

	for _, tok := range stmt.Tokens {
		if tok.Kind == sqltoken.KindTop {
			top = tok
		}
	}

	assert.Equal(t, 10, top.Limit)
	assert.False(t, top.Prefix, "Builder.Top never sets Prefix; only a dialect's rewrite pass does")
}

func TestKindStringNamesEveryVariant(t *testing.T) {
	assert.Equal(t, "SELECT", sqltoken.KindSelect.String())
	assert.Equal(t, "CONDITION", sqltoken.KindCondition.String())
	assert.Equal(t, "UNKNOWN", sqltoken.Kind(-1).String())
}
