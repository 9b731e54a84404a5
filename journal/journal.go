// Package journal implements the transaction journal's outer
// protocol: the begin/commit/rollback vocabulary, single-active-
// transaction enforcement, and observer dispatch. The inverse-delta
// mechanics rollback needs live in the store package, since inverting
// an action means reaching into store internals (identity retirement,
// entity replay); journal orchestrates them.
package journal

import (
	"github.com/google/uuid"

	"github.com/LerianStudio/oosgo/internal/mlog"
	"github.com/LerianStudio/oosgo/store"
)

// Observer is notified of every transaction lifecycle event. It is
// the seam persistence layers, audit loggers, and test fakes share.
type Observer interface {
	OnBegin(tx *store.Transaction)
	// OnCommit projects actions to the backend. A non-nil error aborts
	// the commit: the journal inverts the already-applied live
	// mutations and re-raises.
	OnCommit(tx *store.Transaction, actions []store.Action) error
	OnRollback(tx *store.Transaction)
}

// ObserverFunc adapts a plain function into an Observer whose
// OnBegin/OnRollback are no-ops, for the common case of an observer
// that only cares about commit.
type ObserverFunc func(tx *store.Transaction, actions []store.Action) error

func (f ObserverFunc) OnBegin(*store.Transaction) {}
func (f ObserverFunc) OnRollback(*store.Transaction) {}
func (f ObserverFunc) OnCommit(tx *store.Transaction, actions []store.Action) error {
	return f(tx, actions)
}

// MultiObserver fans a single notification stream out to several
// observers in order (e.g. a persistence binding plus an audit sink).
// The first error from OnCommit stops dispatch and is returned.
type MultiObserver []Observer

func (m MultiObserver) OnBegin(tx *store.Transaction) {
	for _, o := range m {
		o.OnBegin(tx)
	}
}

func (m MultiObserver) OnRollback(tx *store.Transaction) {
	for _, o := range m {
		o.OnRollback(tx)
	}
}

func (m MultiObserver) OnCommit(tx *store.Transaction, actions []store.Action) error {
	for _, o := range m {
		if err := o.OnCommit(tx, actions); err != nil {
			return err
		}
	}

	return nil
}

// Journal owns begin/commit/rollback for one Store and notifies one
// Observer of each transition.
type Journal struct {
	store    *store.Store
	observer Observer
	logger   mlog.Logger
}

// New builds a Journal over store s, dispatching to observer (which
// may be nil to run without notification, e.g. in pure in-memory
// tests).
func New(s *store.Store, observer Observer) *Journal {
	return &Journal{store: s, observer: observer, logger: &mlog.NoneLogger{}}
}

// WithLogger attaches a logger, replacing the NoneLogger default.
func (j *Journal) WithLogger(l mlog.Logger) *Journal {
	j.logger = l
	return j
}

// Store exposes the underlying store for operations (Insert/Update/
// Remove/Get) that don't belong to the journal's own vocabulary.
func (j *Journal) Store() *store.Store { return j.store }

// Begin starts a new transaction. Nested begin is rejected by the
// store; transactions are flat.
func (j *Journal) Begin() (*store.Transaction, error) {
	tx, err := j.store.BeginTransaction(uuid.NewString())
	if err != nil {
		return nil, err
	}

	j.logger.Debugf("transaction %s begin", tx.ID)

	if j.observer != nil {
		j.observer.OnBegin(tx)
	}

	return tx, nil
}

// Commit finalizes tx and hands its action log to the observer. If
// the observer fails, Commit inverts the transaction's already-
// applied live mutations, notifies OnRollback, and re-raises the
// observer's error.
func (j *Journal) Commit(tx *store.Transaction) error {
	actions, err := j.store.CommitTransaction(tx)
	if err != nil {
		return err
	}

	if j.observer == nil {
		return nil
	}

	if err := j.observer.OnCommit(tx, actions); err != nil {
		j.logger.Errorf("transaction %s observer failed on commit, rolling back: %v", tx.ID, err)

		if invErr := j.store.InvertActions(actions); invErr != nil {
			return invErr
		}

		j.store.AbortTransaction(tx)
		j.observer.OnRollback(tx)

		return err
	}

	j.logger.Debugf("transaction %s committed (%d actions)", tx.ID, len(actions))

	return nil
}

// Rollback inverts tx's actions in reverse order and notifies
// OnRollback.
func (j *Journal) Rollback(tx *store.Transaction) error {
	if err := j.store.InvertActions(tx.Actions()); err != nil {
		return err
	}

	j.store.AbortTransaction(tx)
	j.logger.Debugf("transaction %s rolled back", tx.ID)

	if j.observer != nil {
		j.observer.OnRollback(tx)
	}

	return nil
}
