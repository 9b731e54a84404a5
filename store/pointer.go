package store

import "github.com/LerianStudio/oosgo/serialize"

// StrongPtr is a holder that keeps an entity alive while managed,
// addressed by identity. It never dangles: once the target identity
// is removed, Get reports false for every StrongPtr that names it.
type StrongPtr struct {
	id       int64
	typeName string
	store    *Store
}

// ID returns the target identity.
func (p *StrongPtr) ID() int64 { return p.id }

// TypeName returns the target's prototype name.
func (p *StrongPtr) TypeName() string { return p.typeName }

// Ref returns the stable, store-independent reference form, suitable
// for embedding in another entity's fields.
func (p *StrongPtr) Ref() serialize.ObjectRef {
	return serialize.ObjectRef{ID: p.id, Type: p.typeName}
}

// Get resolves the live entity, or (nil, false) if it has been
// removed since this pointer was obtained.
func (p *StrongPtr) Get() (serialize.Serializable, bool) {
	rec, ok := p.store.lookup(p.typeName, p.id)
	if !ok {
		return nil, false
	}

	return rec.entity, true
}

// WeakPtr is a relation-only reference: it knows the target's identity
// and prototype but never keeps it alive and never participates in
// cascade delete. It is typically used for parent links in child-owned
// relations.
type WeakPtr struct {
	ref serialize.ObjectRef
}

// NewWeakPtr wraps a reference as a weak (non-owning) pointer.
func NewWeakPtr(ref serialize.ObjectRef) WeakPtr { return WeakPtr{ref: ref} }

// Ref returns the underlying reference.
func (w WeakPtr) Ref() serialize.ObjectRef { return w.ref }

// Resolve looks the target up in s. A weak pointer never stops the
// target from being removed, so this can return false even while w is
// still held.
func (w WeakPtr) Resolve(s *Store) (serialize.Serializable, bool) {
	ptr, ok := s.Get(w.ref.Type, w.ref.ID)
	if !ok {
		return nil, false
	}

	return ptr.Get()
}
