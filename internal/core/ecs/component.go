package ecs

import "fmt"

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// MissingComponentError reports a lookup of a component an entity does not
// carry. Raised through MustGet; it marks a broken reference, not a
// recoverable condition.
type MissingComponentError struct {
	Entity    EntityID
	Component string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("ecs: entity %s has no %s component", e.Entity, e.Component)
}

// PtrComponentStore is a generic typed store for ECS components.
// Entities are kept in insertion order so iteration is deterministic.
type PtrComponentStore[T any] struct {
	name  string
	data  map[EntityID]*T
	order []EntityID
}

func NewPtrComponentStore[T any](name string) *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		name:  name,
		data:  make(map[EntityID]*T, 256),
		order: make([]EntityID, 0, 256),
	}
}

// Name is the component kind name used in error reports.
func (s *PtrComponentStore[T]) Name() string { return s.name }

// Set attaches c to id, replacing any previous value in place of order.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// MustGet returns the component or panics with *MissingComponentError.
func (s *PtrComponentStore[T]) MustGet(id EntityID) *T {
	c, ok := s.data[id]
	if !ok {
		panic(&MissingComponentError{Entity: id, Component: s.name})
	}
	return c
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, e := range s.order {
		if e == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.order)
}

// Each visits components in insertion order. fn must not add or remove
// components of this kind.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}
