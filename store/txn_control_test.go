package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/internal/errs"
)

func TestBeginRejectsNestedTransaction(t *testing.T) {
	s := New(newTestRegistry(t))

	_, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	_, err = s.BeginTransaction("tx2")
	require.Error(t, err)
	assert.IsType(t, errs.TransactionStateError{}, err)
}

func TestCommitOnCommittedTransactionFails(t *testing.T) {
	s := New(newTestRegistry(t))

	tx, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	_, err = s.CommitTransaction(tx)
	require.NoError(t, err)

	// tx is now committed (terminal); committing again must fail.
	_, err = s.CommitTransaction(tx)
	require.Error(t, err)
	assert.IsType(t, errs.TransactionStateError{}, err)
}

func TestCommitReturnsActionsInAppendOrder(t *testing.T) {
	s := New(newTestRegistry(t))

	tx, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	p1, err := s.Insert(&person{Name: "ada"})
	require.NoError(t, err)

	p2, err := s.Insert(&person{Name: "bob"})
	require.NoError(t, err)

	actions, err := s.CommitTransaction(tx)
	require.NoError(t, err)

	require.Len(t, actions, 2)
	assert.Equal(t, p1.ID(), actions[0].ID)
	assert.Equal(t, p2.ID(), actions[1].ID)
}

func TestUpdateInsideInsertingTransactionEmitsNoUpdateAction(t *testing.T) {
	s := New(newTestRegistry(t))

	tx, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	ptr, err := s.Insert(&person{Name: "ada"})
	require.NoError(t, err)

	live, _ := ptr.Get()
	live.(*person).Name = "bob"
	require.NoError(t, s.Update(ptr))

	// The insert projects the entity's live state at commit, so an
	// update of an identity above the begin-time high-water mark is
	// folded into it.
	actions, err := s.CommitTransaction(tx)
	require.NoError(t, err)

	require.Len(t, actions, 1)
	assert.Equal(t, ActionInsert, actions[0].Kind)
}

func TestUpdateOfPreexistingEntityEmitsUpdateAction(t *testing.T) {
	s := New(newTestRegistry(t))

	ptr, err := s.Insert(&person{Name: "ada"})
	require.NoError(t, err)

	tx, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	live, _ := ptr.Get()
	live.(*person).Name = "bob"
	require.NoError(t, s.Update(ptr))

	actions, err := s.CommitTransaction(tx)
	require.NoError(t, err)

	require.Len(t, actions, 1)
	assert.Equal(t, ActionUpdate, actions[0].Kind)
}

func TestRollbackRestoresInsert(t *testing.T) {
	s := New(newTestRegistry(t))

	tx, err := s.BeginTransaction("tx1")
	require.NoError(t, err)

	ptr, err := s.Insert(&person{Name: "ada"})
	require.NoError(t, err)

	require.NoError(t, s.InvertActions(tx.Actions()))
	s.AbortTransaction(tx)

	_, ok := s.Get("person", ptr.ID())
	assert.False(t, ok, "rollback of an insert must undo it")
}

func TestRollbackRestoresUpdate(t *testing.T) {
	s := New(newTestRegistry(t))

	ptr, err := s.Insert(&person{Name: "ada"})
	require.NoError(t, err)

	tx, err := s.BeginTransaction("tx2")
	require.NoError(t, err)

	live, _ := ptr.Get()
	live.(*person).Name = "bob"
	require.NoError(t, s.Update(ptr))

	require.NoError(t, s.InvertActions(tx.Actions()))
	s.AbortTransaction(tx)

	restored, ok := s.Get("person", ptr.ID())
	require.True(t, ok)
	entity, _ := restored.Get()
	assert.Equal(t, "ada", entity.(*person).Name, "rollback of an update must restore the pre-image")
}

func TestRollbackRestoresDelete(t *testing.T) {
	s := New(newTestRegistry(t))

	ptr, err := s.Insert(&person{Name: "ada", Age: 36})
	require.NoError(t, err)

	tx, err := s.BeginTransaction("tx3")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ptr))

	require.NoError(t, s.InvertActions(tx.Actions()))
	s.AbortTransaction(tx)

	restored, ok := s.Get("person", ptr.ID())
	require.True(t, ok, "rollback of a delete must reinsert it under the original identity")

	entity, _ := restored.Get()
	assert.Equal(t, "ada", entity.(*person).Name)
	assert.Equal(t, int32(36), entity.(*person).Age)
}

func TestInvertActionsPoisonsStoreOnFailure(t *testing.T) {
	s := New(newTestRegistry(t))

	// An update action referencing an identity that was never inserted
	// cannot be inverted: replaying its pre-image has nowhere to land.
	bogus := Action{Kind: ActionUpdate, ID: 999, TypeName: "person"}

	err := s.InvertActions([]Action{bogus})
	require.Error(t, err)

	_, insertErr := s.Insert(&person{Name: "ada"})
	require.Error(t, insertErr, "a store whose rollback failed is poisoned for every subsequent mutation")
	assert.IsType(t, errs.StorePoisonedError{}, insertErr)
}
