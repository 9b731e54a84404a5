// Package session is the minimal façade binding a Store, a Journal,
// and a concrete Backend together: the persistence half of the
// transaction journal's observer contract, plus schema creation at
// startup when auto-create is enabled.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/LerianStudio/oosgo/backend"
	"github.com/LerianStudio/oosgo/dialect"
	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/journal"
	"github.com/LerianStudio/oosgo/registry"
	"github.com/LerianStudio/oosgo/serialize"
	"github.com/LerianStudio/oosgo/sqltoken"
	"github.com/LerianStudio/oosgo/stmt"
	"github.com/LerianStudio/oosgo/store"
)

// Options configures a Session: the engine's recognized options plus
// the observer composition point extra audit sinks attach to.
type Options struct {
	// AutoCreate issues CREATE TABLE for every registered prototype
	// (and container join table) at open.
	AutoCreate bool
	// FlushOnCommit instructs buffered drivers (those implementing
	// backend.Flusher) to flush their write buffer before a commit
	// returns. It does not gate projection: committed actions always
	// reach the backend.
	FlushOnCommit bool
	Logger        mlog.Logger
	Observers     []journal.Observer
	// Redis, when set, puts a read-through cache in front of entity
	// reads, exposed via Session.Cache and invalidated on commit and
	// rollback.
	Redis    *redis.Client
	CacheTTL time.Duration
}

// Session wires a Registry, Store, and Journal over a concrete
// Backend/Dialect pair, and is itself the journal.Observer that
// projects committed actions to SQL.
type Session struct {
	reg    *registry.Registry
	st     *store.Store
	jr     *journal.Journal
	be     backend.Backend
	d      dialect.Dialect
	flush  bool
	cache  *store.CachedStore
	logger mlog.Logger
	shapes map[string][]serialize.Field
}

// Open opens be at uri, optionally creates every registered
// prototype's table (and its containers' join tables), and returns a
// ready Session.
func Open(ctx context.Context, reg *registry.Registry, be backend.Backend, d dialect.Dialect, uri string, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = &mlog.NoneLogger{}
	}

	if err := be.Open(ctx, uri); err != nil {
		return nil, err
	}

	s := &Session{
		reg:    reg,
		be:     be,
		d:      d,
		flush:  opts.FlushOnCommit,
		logger: logger,
		shapes: make(map[string][]serialize.Field),
	}

	s.st = store.New(reg).WithLogger(logger)

	if opts.Redis != nil {
		s.cache = store.NewCachedStore(s.st, opts.Redis, reg, opts.CacheTTL).WithLogger(logger)
	}

	observers := append([]journal.Observer{journal.Observer(s)}, opts.Observers...)
	s.jr = journal.New(s.st, journal.MultiObserver(observers)).WithLogger(logger)

	if opts.AutoCreate {
		if err := s.createSchema(ctx); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Store exposes the underlying store for Insert/Update/Remove/Get.
func (s *Session) Store() *store.Store { return s.st }

// Journal exposes the underlying journal for Begin/Commit/Rollback.
func (s *Session) Journal() *journal.Journal { return s.jr }

// Cache exposes the read-through cache, or nil when no Redis client
// was configured.
func (s *Session) Cache() *store.CachedStore { return s.cache }

// Close closes the underlying backend connection.
func (s *Session) Close() error { return s.be.Close() }

func (s *Session) shapeOf(typeName string) ([]serialize.Field, error) {
	if fs, ok := s.shapes[typeName]; ok {
		return fs, nil
	}

	proto, ok := s.reg.Find(typeName)
	if !ok {
		return nil, errs.UnknownPrototypeError{TypeName: typeName}
	}

	fs := serialize.Shape(proto.Producer())
	s.shapes[typeName] = fs

	return fs, nil
}

func (s *Session) createSchema(ctx context.Context) error {
	for _, proto := range s.reg.Walk(nil) {
		fs, err := s.shapeOf(proto.TypeName)
		if err != nil {
			return err
		}

		if err := s.runStatement(ctx, stmt.Create(s.d.Name(), proto.TypeName, fs)); err != nil {
			return err
		}

		for _, f := range fs {
			if f.Kind != serialize.KindContainer {
				continue
			}

			kind := serialize.ContainerKind(f.Width)
			if err := s.runStatement(ctx, stmt.ContainerCreate(proto.TypeName, f.ID, kind)); err != nil {
				return err
			}
		}
	}

	return nil
}

// OnBegin starts a backend transaction matching the store's.
func (s *Session) OnBegin(tx *store.Transaction) {
	if err := s.be.Begin(context.Background()); err != nil {
		s.logger.Errorf("transaction %s: backend begin failed: %v", tx.ID, err)
	}
}

// OnCommit projects each action onto the backend in order, asks a
// buffered driver to flush when configured to, then commits the
// backend transaction. Any failure aborts the backend transaction and
// returns the error, which the journal turns into a store-level
// rollback.
func (s *Session) OnCommit(tx *store.Transaction, actions []store.Action) error {
	ctx := context.Background()

	for _, a := range actions {
		if err := s.applyAction(ctx, a); err != nil {
			_ = s.be.Rollback(ctx)
			return err
		}

		s.invalidate(ctx, a)
	}

	if s.flush {
		if f, ok := s.be.(backend.Flusher); ok {
			if err := f.Flush(ctx); err != nil {
				_ = s.be.Rollback(ctx)
				return err
			}
		}
	}

	return s.be.Commit(ctx)
}

// OnRollback rolls the backend transaction back alongside the store
// and drops every cached entry the transaction touched, since their
// live state has just been restored.
func (s *Session) OnRollback(tx *store.Transaction) {
	ctx := context.Background()

	for _, a := range tx.Actions() {
		s.invalidate(ctx, a)
	}

	if err := s.be.Rollback(ctx); err != nil {
		s.logger.Errorf("transaction %s: backend rollback failed: %v", tx.ID, err)
	}
}

// invalidate drops a cached entry best-effort: a cache miss is always
// recoverable, so a failure to reach the cache never fails the
// transition that caused it.
func (s *Session) invalidate(ctx context.Context, a store.Action) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, a.TypeName, a.ID); err != nil {
		s.logger.Warnf("cache invalidate failed for %s:%d: %v", a.TypeName, a.ID, err)
	}
}

func (s *Session) applyAction(ctx context.Context, a store.Action) error {
	fs, err := s.shapeOf(a.TypeName)
	if err != nil {
		return err
	}

	switch a.Kind {
	case store.ActionInsert:
		ptr, ok := s.st.Get(a.TypeName, a.ID)
		if !ok {
			return nil
		}

		live, _ := ptr.Get()
		values := serialize.Capture(live)

		return s.runStatement(ctx, stmt.Insert(a.TypeName, a.ID, fs, values))
	case store.ActionUpdate:
		ptr, ok := s.st.Get(a.TypeName, a.ID)
		if !ok {
			return nil
		}

		live, _ := ptr.Get()
		values := serialize.Capture(live)

		return s.runStatement(ctx, stmt.Update(a.TypeName, a.ID, fs, values))
	case store.ActionDelete:
		return s.runStatement(ctx, stmt.Delete(a.TypeName, a.ID))
	case store.ActionContainerAdd:
		kind := containerKindOf(fs, a.Field)
		return s.runStatement(ctx, stmt.ContainerInsert(a.TypeName, a.Field, kind, a.ID, a.Ref.ID, a.Position))
	case store.ActionContainerRemove:
		return s.runStatement(ctx, stmt.ContainerDelete(a.TypeName, a.Field, a.ID, a.Ref.ID))
	default:
		return nil
	}
}

func containerKindOf(fs []serialize.Field, field string) serialize.ContainerKind {
	for _, f := range fs {
		if f.ID == field && f.Kind == serialize.KindContainer {
			return serialize.ContainerKind(f.Width)
		}
	}

	return serialize.SetContainer
}

// driverValue flattens a captured field value to the primitive the
// driver binds: the serialization wrappers (Varchar, FixedBytes,
// ObjectRef, decimal) exist for the statement creator's benefit, not
// the wire's.
func driverValue(v any) any {
	switch x := v.(type) {
	case serialize.Varchar:
		return x.Value
	case serialize.FixedBytes:
		return x.Value
	case serialize.ObjectRef:
		if x.IsNull() {
			return nil
		}

		return x.ID
	case decimal.Decimal:
		return x.String()
	default:
		return v
	}
}

func (s *Session) runStatement(ctx context.Context, st sqltoken.Statement) error {
	sql, binds, err := dialect.Compile(s.d, st)
	if err != nil {
		return err
	}

	prepared, err := s.be.Prepare(ctx, sql)
	if err != nil {
		return err
	}

	defer prepared.Finalize()

	for i, v := range binds {
		if err := prepared.Bind(i+1, driverValue(v)); err != nil {
			return err
		}
	}

	for {
		res, err := prepared.Step(ctx)
		if err != nil {
			return err
		}

		if res.Done {
			break
		}
	}

	return nil
}
