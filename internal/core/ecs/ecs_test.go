package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mass struct{ kg float64 }
type label struct{ s string }
type flag struct{ on bool }

func TestEntityPool_FirstIDIsNotZero(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	assert.False(t, id.IsZero())
	assert.True(t, p.Alive(id))
	assert.Equal(t, 1, p.Live())
}

func TestEntityPool_DestroyInvalidatesStaleRefs(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "second destroy of a stale id is a no-op")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.NotEqual(t, a, b, "generation differs")
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))
}

func TestStore_InsertionOrderSurvivesRemove(t *testing.T) {
	s := NewPtrComponentStore[mass]("mass")
	ids := []EntityID{NewEntityID(3, 1), NewEntityID(1, 1), NewEntityID(2, 1)}
	for i, id := range ids {
		s.Set(id, &mass{kg: float64(i)})
	}
	s.Remove(ids[1])

	var got []EntityID
	s.Each(func(id EntityID, _ *mass) { got = append(got, id) })
	assert.Equal(t, []EntityID{ids[0], ids[2]}, got)
}

func TestStore_MustGetPanicsOnMissing(t *testing.T) {
	s := NewPtrComponentStore[mass]("mass")
	id := NewEntityID(7, 1)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*MissingComponentError)
		require.True(t, ok)
		assert.Equal(t, id, err.Entity)
		assert.Equal(t, "mass", err.Component)
		assert.Contains(t, err.Error(), "no mass component")
	}()
	s.MustGet(id)
}

func TestEach3_OnlyVisitsFullMatches(t *testing.T) {
	w := NewWorld()
	ms := NewStore[mass](w, "mass")
	ls := NewStore[label](w, "label")
	fs := NewStore[flag](w, "flag")

	full := w.CreateEntity()
	partial := w.CreateEntity()
	ms.Set(full, &mass{kg: 1})
	ls.Set(full, &label{s: "full"})
	fs.Set(full, &flag{on: true})
	ms.Set(partial, &mass{kg: 2})
	ls.Set(partial, &label{s: "partial"})

	var seen []string
	Each3(ms, ls, fs, func(_ EntityID, _ *mass, l *label, _ *flag) {
		seen = append(seen, l.s)
	})
	assert.Equal(t, []string{"full"}, seen)
}

func TestWorld_DestroyClearsRegisteredStores(t *testing.T) {
	w := NewWorld()
	ms := NewStore[mass](w, "mass")
	ls := NewStore[label](w, "label")

	id := w.CreateEntity()
	ms.Set(id, &mass{kg: 1})
	ls.Set(id, &label{s: "x"})

	require.True(t, w.Destroy(id))
	assert.False(t, ms.Has(id))
	assert.False(t, ls.Has(id))
	assert.False(t, w.Alive(id))
	assert.False(t, w.Destroy(id))
}
