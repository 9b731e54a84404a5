package journal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/journal"
	"github.com/LerianStudio/oosgo/registry"
	"github.com/LerianStudio/oosgo/serialize"
	"github.com/LerianStudio/oosgo/store"
)

type person struct {
	Name string
}

func (p *person) PrototypeName() string { return "person" }
func (p *person) Serialize(w serialize.Writer) {
	w.WriteVarchar("name", serialize.Varchar{Value: p.Name, Max: 32})
}

func (p *person) Deserialize(r serialize.Reader) error {
	name, err := r.ReadVarchar("name")
	if err != nil {
		return err
	}

	p.Name = name.Value

	return nil
}

func newStore(t *testing.T) *store.Store {
	t.Helper()

	reg := registry.New()
	_, err := reg.Attach("person", func() serialize.Serializable { return &person{} }, "")
	require.NoError(t, err)

	return store.New(reg)
}

// recordingObserver tracks which lifecycle callbacks fired, in order.
type recordingObserver struct {
	events  []string
	failErr error
}

func (o *recordingObserver) OnBegin(*store.Transaction) { o.events = append(o.events, "begin") }
func (o *recordingObserver) OnRollback(*store.Transaction) {
	o.events = append(o.events, "rollback")
}

func (o *recordingObserver) OnCommit(_ *store.Transaction, actions []store.Action) error {
	o.events = append(o.events, "commit")

	if o.failErr != nil {
		return o.failErr
	}

	return nil
}

func TestBeginCommitDispatchesObserverInOrder(t *testing.T) {
	obs := &recordingObserver{}
	j := journal.New(newStore(t), obs)

	tx, err := j.Begin()
	require.NoError(t, err)

	_, err = j.Store().Insert(&person{Name: "ada"})
	require.NoError(t, err)

	require.NoError(t, j.Commit(tx))
	assert.Equal(t, []string{"begin", "commit"}, obs.events)
}

func TestRollbackDispatchesObserver(t *testing.T) {
	obs := &recordingObserver{}
	j := journal.New(newStore(t), obs)

	tx, err := j.Begin()
	require.NoError(t, err)

	ptr, err := j.Store().Insert(&person{Name: "ada"})
	require.NoError(t, err)

	require.NoError(t, j.Rollback(tx))
	assert.Equal(t, []string{"begin", "rollback"}, obs.events)

	_, ok := j.Store().Get("person", ptr.ID())
	assert.False(t, ok, "rollback must undo the insert")
}

func TestObserverFailureDuringCommitRollsBackAndReraises(t *testing.T) {
	failure := errors.New("backend unreachable")
	obs := &recordingObserver{failErr: failure}
	j := journal.New(newStore(t), obs)

	tx, err := j.Begin()
	require.NoError(t, err)

	ptr, err := j.Store().Insert(&person{Name: "ada"})
	require.NoError(t, err)

	err = j.Commit(tx)
	require.ErrorIs(t, err, failure)

	assert.Equal(t, []string{"begin", "commit", "rollback"}, obs.events,
		"a failed OnCommit must still notify OnRollback")

	_, ok := j.Store().Get("person", ptr.ID())
	assert.False(t, ok, "the already-applied mutation must be inverted when the observer fails")
}

func TestMultiObserverStopsAtFirstError(t *testing.T) {
	failure := errors.New("sink down")
	first := &recordingObserver{}
	second := &recordingObserver{failErr: failure}
	third := &recordingObserver{}

	j := journal.New(newStore(t), journal.MultiObserver{first, second, third})

	tx, err := j.Begin()
	require.NoError(t, err)

	_, err = j.Store().Insert(&person{Name: "ada"})
	require.NoError(t, err)

	err = j.Commit(tx)
	require.ErrorIs(t, err, failure)

	assert.Contains(t, first.events, "commit")
	assert.Contains(t, second.events, "commit")
	assert.NotContains(t, third.events, "commit", "an observer after the failing one must not be dispatched")
}

func TestObserverFuncOnlyHandlesCommit(t *testing.T) {
	called := false
	obs := journal.ObserverFunc(func(tx *store.Transaction, actions []store.Action) error {
		called = true
		return nil
	})

	j := journal.New(newStore(t), obs)

	tx, err := j.Begin()
	require.NoError(t, err)

	require.NoError(t, j.Commit(tx))
	assert.True(t, called)
}

func TestJournalWithNilObserverRunsPurelyInMemory(t *testing.T) {
	j := journal.New(newStore(t), nil)

	tx, err := j.Begin()
	require.NoError(t, err)

	_, err = j.Store().Insert(&person{Name: "ada"})
	require.NoError(t, err)

	require.NoError(t, j.Commit(tx))
}
