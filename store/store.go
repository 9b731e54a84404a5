// Package store implements the object store and the low-level half of
// the transaction journal: identity allocation, prototype buckets,
// action recording, and the inverse-delta mechanics rollback needs.
// The higher-level orchestration
// (observer dispatch, single-active-transaction enforcement as seen
// from outside, the public Begin/Commit/Rollback vocabulary) lives in
// the sibling journal package, which imports this one.
package store

import (
	"math"

	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/registry"
	"github.com/LerianStudio/oosgo/serialize"
)

type record struct {
	id         int64
	prototype  *registry.Prototype
	entity     serialize.Serializable
	version    uint64
	lastImage  []serialize.FieldValue
}

// Store is a typed in-memory graph of managed entities: identity,
// storage, and change notification. It is single-threaded; callers
// own external mutual exclusion if they share a Store across
// goroutines.
type Store struct {
	registry  *registry.Registry
	buckets   map[string]map[int64]*record
	nextID    int64
	activeTxn *Transaction
	poisoned  error
	logger    mlog.Logger
}

// New builds an empty store bound to the given prototype registry.
func New(reg *registry.Registry) *Store {
	return &Store{
		registry: reg,
		buckets:  make(map[string]map[int64]*record),
		nextID:   1,
		logger:   &mlog.NoneLogger{},
	}
}

// WithLogger attaches a logger, replacing the NoneLogger default.
func (s *Store) WithLogger(l mlog.Logger) *Store {
	s.logger = l
	return s
}

func (s *Store) checkAlive() error {
	if s.poisoned != nil {
		return errs.StorePoisonedError{Cause: s.poisoned}
	}

	return nil
}

// Poison marks the store unusable after an unrecoverable failure,
// a rollback that could not complete. Every mutation attempted
// afterward fails with StorePoisonedError.
func (s *Store) Poison(cause error) {
	if s.poisoned == nil {
		s.poisoned = cause
		s.logger.Errorf("store poisoned: %v", cause)
	}
}

func (s *Store) bucket(typeName string) map[int64]*record {
	b, ok := s.buckets[typeName]
	if !ok {
		b = make(map[int64]*record)
		s.buckets[typeName] = b
	}

	return b
}

func (s *Store) lookup(typeName string, id int64) (*record, bool) {
	b, ok := s.buckets[typeName]
	if !ok {
		return nil, false
	}

	rec, ok := b[id]

	return rec, ok
}

func (s *Store) appendAction(a Action) error {
	if s.activeTxn == nil {
		return nil
	}

	if s.activeTxn.state != TxActive {
		return errs.TransactionStateError{State: s.activeTxn.state.String(), Attempted: "append", TxnID: s.activeTxn.ID}
	}

	s.activeTxn.actions = append(s.activeTxn.actions, a)

	return nil
}

// Insert assigns a fresh identity, attaches the entity to its
// prototype's bucket, and emits an insert action to the active
// transaction if one exists. Identity allocation is monotonic per
// store.
func (s *Store) Insert(entity serialize.Serializable) (*StrongPtr, error) {
	if err := s.checkAlive(); err != nil {
		return nil, err
	}

	typeName := entity.PrototypeName()

	proto, ok := s.registry.Find(typeName)
	if !ok {
		return nil, errs.UnknownPrototypeError{TypeName: typeName}
	}

	if s.nextID == math.MaxInt64 {
		return nil, errs.IdentityExhaustedError{}
	}

	id := s.nextID
	s.nextID++

	rec := &record{id: id, prototype: proto, entity: entity, version: 1}
	rec.lastImage = serialize.Capture(entity)
	s.bucket(typeName)[id] = rec

	if err := s.appendAction(Action{Kind: ActionInsert, ID: id, TypeName: typeName}); err != nil {
		delete(s.bucket(typeName), id)
		return nil, err
	}

	return &StrongPtr{id: id, typeName: typeName, store: s}, nil
}

// Update re-serializes the entity's current state, emits an update
// action carrying the field vector from the last sync point (insert,
// or the previous update) as the pre-image, and advances the sync
// point to the entity's current state. Entities inserted by the
// active transaction emit no update action; see below.
func (s *Store) Update(ptr *StrongPtr) error {
	if err := s.checkAlive(); err != nil {
		return err
	}

	rec, ok := s.lookup(ptr.typeName, ptr.id)
	if !ok {
		return errs.MissingFieldError{Field: ptr.typeName}
	}

	current := serialize.Capture(rec.entity)

	// An entity the active transaction itself inserted needs no update
	// action: commit projects the insert from live state, and rollback
	// drops the entity wholesale. The begin-time high-water mark tells
	// fresh identities apart from pre-existing ones.
	if s.activeTxn != nil && s.activeTxn.state == TxActive && rec.id >= s.activeTxn.highWater {
		rec.lastImage = current
		rec.version++

		return nil
	}

	preImage := rec.lastImage

	if err := s.appendAction(Action{Kind: ActionUpdate, ID: rec.id, TypeName: rec.prototype.TypeName, PreImage: preImage}); err != nil {
		return err
	}

	rec.lastImage = current
	rec.version++

	return nil
}

// Remove detaches the entity from its prototype bucket, retires the
// identity (never reused within this store's lifetime), and emits a
// delete action carrying the full serialized image. Containers owned
// by the entity cascade: each referenced entity is removed in turn,
// and a container-remove action is emitted per membership.
func (s *Store) Remove(ptr *StrongPtr) error {
	if err := s.checkAlive(); err != nil {
		return err
	}

	rec, ok := s.lookup(ptr.typeName, ptr.id)
	if !ok {
		return nil
	}

	full := serialize.Capture(rec.entity)

	for _, fv := range full {
		if fv.Kind != serialize.KindContainer {
			continue
		}

		cont, _ := fv.Value.(serialize.Container)
		for _, ref := range cont.Refs {
			if childPtr, ok := s.Get(ref.Type, ref.ID); ok {
				if err := s.Remove(childPtr); err != nil {
					return err
				}
			}

			if err := s.appendAction(Action{
				Kind: ActionContainerRemove, ID: rec.id, TypeName: rec.prototype.TypeName,
				Field: fv.ID, Ref: ref,
			}); err != nil {
				return err
			}
		}
	}

	if err := s.appendAction(Action{Kind: ActionDelete, ID: rec.id, TypeName: rec.prototype.TypeName, PreImage: full}); err != nil {
		return err
	}

	delete(s.bucket(rec.prototype.TypeName), rec.id)

	return nil
}

// Get resolves a managed entity by prototype type name and identity.
// A removed identity is never visible here.
func (s *Store) Get(typeName string, id int64) (*StrongPtr, bool) {
	if _, ok := s.lookup(typeName, id); !ok {
		return nil, false
	}

	return &StrongPtr{id: id, typeName: typeName, store: s}, true
}

// Registry exposes the bound prototype registry.
func (s *Store) Registry() *registry.Registry { return s.registry }
