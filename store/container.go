package store

import "github.com/LerianStudio/oosgo/serialize"

// ContainerRef is the store-facing handle for mutating a container
// field. A container belongs
// to one owning entity and one named field; adding or removing a
// member emits a per-element action against the owning transaction,
// in addition to the full pre/post image captured the same way
// Update does, so rollback restores the owner's container field
// along with everything else about it.
//
// Callers still mutate the owner's own Go-level field themselves
// (e.g. appending to a []serialize.ObjectRef slice) before calling
// Add, exactly as they would before calling Store.Update — Container
// only adds the join-table-shaped action the statement creator needs
// on top of that.
type ContainerRef struct {
	store *Store
	owner *StrongPtr
	field string
	kind  serialize.ContainerKind
}

// Container returns a handle for mutating the named container field
// on owner.
func (s *Store) Container(owner *StrongPtr, field string, kind serialize.ContainerKind) *ContainerRef {
	return &ContainerRef{store: s, owner: owner, field: field, kind: kind}
}

// Add records ref joining the container. For list-kind containers,
// position is the slot it was inserted at; pass -1 for set-kind
// containers, where no position column exists.
func (c *ContainerRef) Add(ref serialize.ObjectRef, position int) error {
	if err := c.store.Update(c.owner); err != nil {
		return err
	}

	return c.store.appendAction(Action{
		Kind: ActionContainerAdd, ID: c.owner.id, TypeName: c.owner.typeName,
		Field: c.field, Ref: ref, Position: position,
	})
}

// Remove records ref leaving the container.
func (c *ContainerRef) Remove(ref serialize.ObjectRef) error {
	if err := c.store.Update(c.owner); err != nil {
		return err
	}

	return c.store.appendAction(Action{
		Kind: ActionContainerRemove, ID: c.owner.id, TypeName: c.owner.typeName,
		Field: c.field, Ref: ref, Position: -1,
	})
}
