package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()

	a, err := r.Register(KindPopUpdate)
	require.NoError(t, err)
	b, err := r.Register(KindScriptMessage)
	require.NoError(t, err)

	assert.Equal(t, TypeID(1), a)
	assert.Equal(t, TypeID(2), b)

	k, err := r.Kind(b)
	require.NoError(t, err)
	assert.Equal(t, KindScriptMessage, k)
}

func TestRegistry_RejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	first, err := r.Register(KindPopUpdate)
	require.NoError(t, err)

	again, err := r.Register(KindPopUpdate)
	assert.ErrorIs(t, err, ErrDuplicateKind)
	assert.Equal(t, first, again, "existing id is reported, not reassigned")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_FrozenIsReadOnly(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	_, err := r.Register(KindPopUpdate)
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.True(t, r.Frozen())
}

func TestRegistry_UnregisteredLookupFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.ID(KindPopUpdate)
	assert.ErrorIs(t, err, ErrUnregisteredKind)

	_, err = r.Kind(42)
	assert.ErrorIs(t, err, ErrUnregisteredKind)
}

func TestRegistry_InvalidKindRejected(t *testing.T) {
	_, err := NewRegistry().Register(KindInvalid)
	assert.Error(t, err)
}

func TestDefaultRegistry_StableIDs(t *testing.T) {
	r := NewDefaultRegistry()
	require.True(t, r.Frozen())
	require.Equal(t, len(BuiltinKinds), r.Len())

	for i, k := range BuiltinKinds {
		id, err := r.ID(k)
		require.NoError(t, err)
		assert.Equal(t, TypeID(i+1), id, "kind %s", k)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "resource_produced", KindResourceProduced.String())
	assert.Equal(t, "unknown", Kind(999).String())
}
