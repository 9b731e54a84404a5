// Package audit implements optional journal.Observer commit sinks:
// a MongoDB mirror and a RabbitMQ commit-event publisher. Neither
// participates in persistence itself (the primary observer is the
// session's backend binding); both are read-only witnesses of a
// committed transaction's action log.
package audit

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/store"
)

// MongoConnection is a lazy-connect holder: getDB dials on first
// use, then reuses the client.
type MongoConnection struct {
	ConnectionStringSource string
	Database               string
	client                 *mongo.Client
	logger                 mlog.Logger
}

// NewMongoConnection builds an unconnected MongoConnection; getDB
// dials lazily on first use.
func NewMongoConnection(uri, database string, logger mlog.Logger) *MongoConnection {
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	return &MongoConnection{ConnectionStringSource: uri, Database: database, logger: logger}
}

func (mc *MongoConnection) getDB(ctx context.Context) (*mongo.Client, error) {
	if mc.client != nil {
		return mc.client, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mc.ConnectionStringSource))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	mc.client = client

	return client, nil
}

// actionRecord is the document shape one committed store.Action is
// mirrored as.
type actionRecord struct {
	TransactionID string    `bson:"transaction_id"`
	Kind          string    `bson:"kind"`
	EntityType    string    `bson:"entity_type"`
	EntityID      int64     `bson:"entity_id"`
	Field         string    `bson:"field,omitempty"`
	CommittedAt   time.Time `bson:"committed_at"`
}

// MongoAuditObserver mirrors every action of a committed transaction
// into a MongoDB collection, one document per action, with one
// collection per entity type the actions target.
type MongoAuditObserver struct {
	conn   *MongoConnection
	now    func() time.Time
	logger mlog.Logger
}

// NewMongoAuditObserver returns an observer writing through conn.
func NewMongoAuditObserver(conn *MongoConnection, logger mlog.Logger) *MongoAuditObserver {
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	return &MongoAuditObserver{conn: conn, now: time.Now, logger: logger}
}

func (o *MongoAuditObserver) OnBegin(*store.Transaction) {}

func (o *MongoAuditObserver) OnRollback(*store.Transaction) {}

// OnCommit mirrors actions best-effort: a failure to reach Mongo is
// logged and swallowed rather than failing the commit, since an audit
// mirror is a witness, not a participant in persistence.
func (o *MongoAuditObserver) OnCommit(tx *store.Transaction, actions []store.Action) error {
	if len(actions) == 0 {
		return nil
	}

	ctx := context.Background()

	client, err := o.conn.getDB(ctx)
	if err != nil {
		o.logger.Warnf("audit mongo: connect failed, skipping mirror for tx %s: %v", tx.ID, err)
		return nil
	}

	committedAt := o.now()

	byType := make(map[string][]any)

	for _, a := range actions {
		rec := actionRecord{
			TransactionID: tx.ID,
			Kind:          a.Kind.String(),
			EntityType:    a.TypeName,
			EntityID:      a.ID,
			Field:         a.Field,
			CommittedAt:   committedAt,
		}

		byType[a.TypeName] = append(byType[a.TypeName], rec)
	}

	db := client.Database(strings.ToLower(o.conn.Database))

	for typeName, docs := range byType {
		coll := db.Collection(strings.ToLower(typeName) + "_audit")

		if _, err := coll.InsertMany(ctx, docs); err != nil {
			o.logger.Warnf("audit mongo: insert failed for tx %s/%s: %v", tx.ID, typeName, err)
		}
	}

	return nil
}
