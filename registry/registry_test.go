package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/oosgo/internal/errs"
	"github.com/LerianStudio/oosgo/registry"
	"github.com/LerianStudio/oosgo/serialize"
)

func noopProducer() serialize.Serializable { return nil }

func TestAttachAndFind(t *testing.T) {
	r := registry.New()

	proto, err := r.Attach("person", noopProducer, "")
	require.NoError(t, err)
	assert.Equal(t, "person", proto.TypeName)
	assert.Nil(t, proto.Parent)

	found, ok := r.Find("person")
	require.True(t, ok)
	assert.Same(t, proto, found)

	_, ok = r.Find("ghost")
	assert.False(t, ok)
}

func TestAttachDuplicateType(t *testing.T) {
	r := registry.New()

	_, err := r.Attach("person", noopProducer, "")
	require.NoError(t, err)

	_, err = r.Attach("person", noopProducer, "")
	require.Error(t, err)
	assert.IsType(t, errs.DuplicateTypeError{}, err)
}

func TestAttachUnknownParent(t *testing.T) {
	r := registry.New()

	_, err := r.Attach("employee", noopProducer, "person")
	require.Error(t, err)
	assert.IsType(t, errs.UnknownParentError{}, err)
}

func TestAttachBuildsParentChildTree(t *testing.T) {
	r := registry.New()

	parent, err := r.Attach("entity", noopProducer, "")
	require.NoError(t, err)

	child, err := r.Attach("person", noopProducer, "entity")
	require.NoError(t, err)

	assert.Same(t, parent, child.Parent)
	require.Len(t, parent.Children, 1)
	assert.Same(t, child, parent.Children[0])
}

func TestWalkIsDepthFirstAndRestartable(t *testing.T) {
	r := registry.New()

	root, err := r.Attach("entity", noopProducer, "")
	require.NoError(t, err)
	_, err = r.Attach("person", noopProducer, "entity")
	require.NoError(t, err)
	_, err = r.Attach("vehicle", noopProducer, "entity")
	require.NoError(t, err)

	names := func(protos []*registry.Prototype) []string {
		out := make([]string, len(protos))
		for i, p := range protos {
			out[i] = p.TypeName
		}

		return out
	}

	first := names(r.Walk(nil))
	second := names(r.Walk(nil))

	assert.Equal(t, []string{"entity", "person", "vehicle"}, first)
	assert.Equal(t, first, second, "walk must be restartable and deterministic")

	scoped := names(r.Walk(root))
	assert.Equal(t, []string{"entity", "person", "vehicle"}, scoped)
}

func TestWalkOmitsDetachedPrototypes(t *testing.T) {
	r := registry.New()

	_, err := r.Attach("entity", noopProducer, "")
	require.NoError(t, err)

	sub := registry.New()
	orphan, err := sub.Attach("orphan", noopProducer, "")
	require.NoError(t, err)

	all := r.Walk(nil)
	for _, p := range all {
		assert.NotEqual(t, orphan.TypeName, p.TypeName)
	}
}
