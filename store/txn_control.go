package store

import (
	"time"

	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/serialize"
)

// BeginTransaction installs id as the store's active transaction,
// snapshotting the identity allocator's high-water mark. Nested begin
// (a transaction already active) is rejected; transactions are flat.
func (s *Store) BeginTransaction(id string) (*Transaction, error) {
	if err := s.checkAlive(); err != nil {
		return nil, err
	}

	if s.activeTxn != nil && s.activeTxn.state == TxActive {
		return nil, errs.TransactionStateError{State: s.activeTxn.state.String(), Attempted: "begin", TxnID: s.activeTxn.ID}
	}

	tx := &Transaction{ID: id, BeginTS: time.Now(), state: TxActive, highWater: s.nextID}
	s.activeTxn = tx

	return tx, nil
}

// CommitTransaction finalizes tx as committed and returns its action
// log. It is the caller's (journal's) job to hand that log to the
// observer and, if the observer fails, call InvertActions to undo the
// already-applied live mutations.
func (s *Store) CommitTransaction(tx *Transaction) ([]Action, error) {
	if err := s.checkAlive(); err != nil {
		return nil, err
	}

	if tx != s.activeTxn || tx.state != TxActive {
		return nil, errs.TransactionStateError{State: tx.state.String(), Attempted: "commit", TxnID: tx.ID}
	}

	actions := tx.Actions()
	tx.state = TxCommitted
	s.activeTxn = nil

	return actions, nil
}

// AbortTransaction marks tx rolled back and detaches it as the
// store's active transaction, without touching any live state. The
// caller is responsible for having already inverted tx's actions
// (via InvertActions) before or after calling this, in either
// rollback or commit-observer-failure flows.
func (s *Store) AbortTransaction(tx *Transaction) {
	tx.state = TxRolledBack

	if s.activeTxn == tx {
		s.activeTxn = nil
	}
}

// InvertActions undoes actions in reverse order: insert is undone by
// retiring the identity and dropping the entity; update is undone by
// replaying its pre-image back onto the live entity; delete is undone
// by reinserting the full image under the original identity.
// Container actions have no inverse of their own: membership lives in
// the owner's container field, which the owner's own update, insert,
// or delete inversion restores. A failure here poisons the store; a
// rollback that cannot complete is fatal.
func (s *Store) InvertActions(actions []Action) error {
	for i := len(actions) - 1; i >= 0; i-- {
		if err := s.invertOne(actions[i]); err != nil {
			s.Poison(err)
			return err
		}
	}

	return nil
}

func (s *Store) invertOne(a Action) error {
	switch a.Kind {
	case ActionInsert:
		delete(s.bucket(a.TypeName), a.ID)
		return nil

	case ActionUpdate:
		rec, ok := s.lookup(a.TypeName, a.ID)
		if !ok {
			return errs.MissingFieldError{Field: a.TypeName}
		}

		if err := rec.entity.Deserialize(serialize.NewReplayReader(a.PreImage)); err != nil {
			return err
		}

		rec.lastImage = a.PreImage

		return nil

	case ActionDelete:
		proto, ok := s.registry.Find(a.TypeName)
		if !ok {
			return errs.UnknownPrototypeError{TypeName: a.TypeName}
		}

		entity := proto.Producer()
		if err := entity.Deserialize(serialize.NewReplayReader(a.PreImage)); err != nil {
			return err
		}

		s.bucket(a.TypeName)[a.ID] = &record{
			id: a.ID, prototype: proto, entity: entity, version: 1, lastImage: a.PreImage,
		}

		return nil

	case ActionContainerAdd:
		// Inverse of "add member to container" is "remove it"; the
		// container membership is not separately stored (it is derived
		// from the owning entity's own field), so there is nothing
		// further to undo beyond the action having been recorded.
		return nil

	case ActionContainerRemove:
		return nil

	default:
		return nil
	}
}
