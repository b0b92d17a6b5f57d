package event

import (
	"errors"
	"fmt"
)

// TypeID is the stable numeric identity of an event kind.
type TypeID int32

var (
	ErrUnregisteredKind = errors.New("event kind not registered")
	ErrDuplicateKind    = errors.New("event kind already registered")
	ErrRegistryFrozen   = errors.New("event registry is frozen")
)

// Registry maps kinds to numeric IDs. It is filled once during startup and
// frozen before the first emit; after Freeze it is read-only.
type Registry struct {
	ids    map[Kind]TypeID
	kinds  map[TypeID]Kind
	next   TypeID
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{
		ids:   make(map[Kind]TypeID, len(BuiltinKinds)),
		kinds: make(map[TypeID]Kind, len(BuiltinKinds)),
		next:  1,
	}
}

// NewDefaultRegistry registers BuiltinKinds in order and freezes the result.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, k := range BuiltinKinds {
		if _, err := r.Register(k); err != nil {
			panic(fmt.Sprintf("event: default registry: %v", err))
		}
	}
	r.Freeze()
	return r
}

// Register assigns the next free ID to kind. IDs are never reused.
func (r *Registry) Register(kind Kind) (TypeID, error) {
	if r.frozen {
		return 0, fmt.Errorf("register %s: %w", kind, ErrRegistryFrozen)
	}
	if kind == KindInvalid {
		return 0, fmt.Errorf("register kind %d: invalid kind", kind)
	}
	if id, ok := r.ids[kind]; ok {
		return id, fmt.Errorf("register %s (id %d): %w", kind, id, ErrDuplicateKind)
	}
	id := r.next
	r.next++
	r.ids[kind] = id
	r.kinds[id] = kind
	return id, nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }

// ID returns the numeric identity of kind.
func (r *Registry) ID(kind Kind) (TypeID, error) {
	id, ok := r.ids[kind]
	if !ok {
		return 0, fmt.Errorf("lookup %s: %w", kind, ErrUnregisteredKind)
	}
	return id, nil
}

// Kind is the reverse of ID.
func (r *Registry) Kind(id TypeID) (Kind, error) {
	k, ok := r.kinds[id]
	if !ok {
		return KindInvalid, fmt.Errorf("lookup type id %d: %w", id, ErrUnregisteredKind)
	}
	return k, nil
}

func (r *Registry) Len() int { return len(r.ids) }
