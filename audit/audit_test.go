package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/audit"
	"github.com/LerianStudio/oosgo/store"
)

// These cover the paths that don't require a reachable Mongo/RabbitMQ
// instance: the no-op lifecycle callbacks, the Mongo mirror swallowing
// a failed connect, and the early-return when a transaction committed
// zero actions.

func TestMongoObserverLifecycleNoOpsDoNotPanic(t *testing.T) {
	obs := audit.NewMongoAuditObserver(audit.NewMongoConnection("mongodb://unused", "unused", nil), nil)

	assert.NotPanics(t, func() {
		obs.OnBegin(&store.Transaction{})
		obs.OnRollback(&store.Transaction{})
	})
}

func TestMongoObserverSwallowsConnectionFailure(t *testing.T) {
	obs := audit.NewMongoAuditObserver(audit.NewMongoConnection("mongodb://127.0.0.1:1", "unused", nil), nil)

	tx := &store.Transaction{ID: "tx1"}
	err := obs.OnCommit(tx, []store.Action{{Kind: store.ActionInsert, ID: 1, TypeName: "person"}})
	require.NoError(t, err, "a best-effort audit mirror must never fail the commit it witnesses")
}

func TestRabbitMQPublisherLifecycleNoOpsDoNotPanic(t *testing.T) {
	conn := audit.NewRabbitMQConnection("amqp://unused", "exchange", "key", nil)
	pub := audit.NewRabbitMQCommitPublisher(conn, nil)

	assert.NotPanics(t, func() {
		pub.OnBegin(&store.Transaction{})
		pub.OnRollback(&store.Transaction{})
	})
}

func TestRabbitMQPublisherSkipsDialOnEmptyActionSet(t *testing.T) {
	// An unreachable broker would make getChannel fail; since there are
	// no actions, OnCommit must return before ever dialing.
	conn := audit.NewRabbitMQConnection("amqp://127.0.0.1:1", "exchange", "key", nil)
	pub := audit.NewRabbitMQCommitPublisher(conn, nil)

	err := pub.OnCommit(&store.Transaction{ID: "tx1"}, nil)
	require.NoError(t, err)
}
