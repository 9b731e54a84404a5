package audit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/store"
)

// RabbitMQConnection is a lazy-connect holder for one AMQP channel:
// getChannel dials on first use, then reuses the channel.
type RabbitMQConnection struct {
	ConnectionStringSource string
	Exchange               string
	Key                    string

	conn   *amqp.Connection
	ch     *amqp.Channel
	logger mlog.Logger
}

// NewRabbitMQConnection builds an unconnected RabbitMQConnection;
// getChannel dials lazily on first use.
func NewRabbitMQConnection(uri, exchange, key string, logger mlog.Logger) *RabbitMQConnection {
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	return &RabbitMQConnection{ConnectionStringSource: uri, Exchange: exchange, Key: key, logger: logger}
}

func (rc *RabbitMQConnection) getChannel() (*amqp.Channel, error) {
	if rc.ch != nil {
		return rc.ch, nil
	}

	conn, err := amqp.Dial(rc.ConnectionStringSource)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	rc.conn = conn
	rc.ch = ch

	return ch, nil
}

// commitEvent is the message body published for one committed
// transaction: a summary (action count, ids, timestamp), not the full
// action log.
type commitEvent struct {
	TransactionID string  `json:"transaction_id"`
	ActionCount   int     `json:"action_count"`
	EntityIDs     []int64 `json:"entity_ids"`
	CommittedAt   int64   `json:"committed_at_unix"`
}

// RabbitMQCommitPublisher publishes one AMQP message per committed
// transaction.
type RabbitMQCommitPublisher struct {
	conn   *RabbitMQConnection
	now    func() time.Time
	logger mlog.Logger
}

// NewRabbitMQCommitPublisher returns an observer publishing through conn.
func NewRabbitMQCommitPublisher(conn *RabbitMQConnection, logger mlog.Logger) *RabbitMQCommitPublisher {
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	return &RabbitMQCommitPublisher{conn: conn, now: time.Now, logger: logger}
}

func (o *RabbitMQCommitPublisher) OnBegin(*store.Transaction) {}

func (o *RabbitMQCommitPublisher) OnRollback(*store.Transaction) {}

// OnCommit publishes one message summarizing the transaction.
// Publish failures are logged and swallowed, same rationale as the
// Mongo mirror: this observer witnesses commits, it does not gate them.
func (o *RabbitMQCommitPublisher) OnCommit(tx *store.Transaction, actions []store.Action) error {
	if len(actions) == 0 {
		return nil
	}

	ch, err := o.conn.getChannel()
	if err != nil {
		o.logger.Warnf("audit rabbitmq: connect failed, skipping publish for tx %s: %v", tx.ID, err)
		return nil
	}

	ids := make([]int64, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}

	body, err := json.Marshal(commitEvent{
		TransactionID: tx.ID,
		ActionCount:   len(actions),
		EntityIDs:     ids,
		CommittedAt:   o.now().Unix(),
	})
	if err != nil {
		o.logger.Warnf("audit rabbitmq: marshal failed for tx %s: %v", tx.ID, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx, o.conn.Exchange, o.conn.Key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		o.logger.Warnf("audit rabbitmq: publish failed for tx %s: %v", tx.ID, err)
	}

	return nil
}
