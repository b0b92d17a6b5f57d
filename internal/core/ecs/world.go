package ecs

// World is the top-level ECS container. It owns the entity pool and every
// component store registered against it. Destruction is immediate: the
// entity's components are dropped from each store and its generation bumps.
type World struct {
	pool   *EntityPool
	stores []Removable
}

func NewWorld() *World {
	return &World{
		pool:   NewEntityPool(),
		stores: make([]Removable, 0, 16),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }

// RegisterStore tracks a component store so Destroy can clear it.
func (w *World) RegisterStore(store Removable) {
	w.stores = append(w.stores, store)
}

// NewStore creates a component store already registered with w.
func NewStore[T any](w *World, name string) *PtrComponentStore[T] {
	s := NewPtrComponentStore[T](name)
	w.RegisterStore(s)
	return s
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy removes id and all of its components. Stale ids are ignored.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	return w.pool.Destroy(id)
}
