package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/registry"
	"github.com/LerianStudio/oosgo/serialize"
)

// gob transmits FieldValue.Value as an interface slot, so every
// concrete type the serialization protocol can capture must be
// registered, the sized numeric widths included (gob pre-registers
// only the unsized base types).
func init() {
	gob.Register(serialize.ObjectRef{})
	gob.Register(serialize.Container{})
	gob.Register(serialize.Varchar{})
	gob.Register(serialize.FixedBytes{})
	gob.Register(decimal.Decimal{})
	gob.Register(int8(0))
	gob.Register(int16(0))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(uint8(0))
	gob.Register(uint16(0))
	gob.Register(uint32(0))
	gob.Register(uint64(0))
	gob.Register(float32(0))
}

// CachedStore is an optional read-through cache in front of Get,
// keyed by "oosgo:<type>:<id>" in Redis. It is purely an optimization over
// the single-threaded Store: every read and invalidation it performs
// is synchronous with the caller, so the single-threaded ownership
// model is unchanged.
type CachedStore struct {
	inner  *Store
	client *redis.Client
	reg    *registry.Registry
	ttl    time.Duration
	logger mlog.Logger
}

// NewCachedStore wraps inner with a Redis read-through cache.
func NewCachedStore(inner *Store, client *redis.Client, reg *registry.Registry, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, client: client, reg: reg, ttl: ttl, logger: &mlog.NoneLogger{}}
}

// WithLogger attaches a logger, replacing the NoneLogger default.
func (c *CachedStore) WithLogger(l mlog.Logger) *CachedStore {
	c.logger = l
	return c
}

func cacheKey(typeName string, id int64) string {
	return fmt.Sprintf("oosgo:%s:%d", typeName, id)
}

func encodeFieldValues(fields []serialize.FieldValue) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(fields); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeFieldValues(raw []byte) ([]serialize.FieldValue, error) {
	var fields []serialize.FieldValue
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Get serves a cache hit by replaying the cached field vector into a
// fresh entity; on a miss it falls through to the underlying store,
// populating the cache for next time.
func (c *CachedStore) Get(ctx context.Context, typeName string, id int64) (serialize.Serializable, bool, error) {
	key := cacheKey(typeName, id)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if fields, decErr := decodeFieldValues(raw); decErr == nil {
			if proto, ok := c.reg.Find(typeName); ok {
				entity := proto.Producer()
				if err := entity.Deserialize(serialize.NewReplayReader(fields)); err == nil {
					return entity, true, nil
				}
			}
		}
	}

	ptr, ok := c.inner.Get(typeName, id)
	if !ok {
		return nil, false, nil
	}

	entity, _ := ptr.Get()

	fields := serialize.Capture(entity)
	if raw, err := encodeFieldValues(fields); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warnf("cache populate failed for %s: %v", key, err)
		}
	}

	return entity, true, nil
}

// Invalidate drops a cached entry; call it after Update, Remove, or a
// rollback that touched this identity.
func (c *CachedStore) Invalidate(ctx context.Context, typeName string, id int64) error {
	return c.client.Del(ctx, cacheKey(typeName, id)).Err()
}
