package component

import "github.com/spacestation/sim/internal/core/ecs"

// DepletionThresholdKg is the smallest mass a Resource may hold. Anything
// lighter is destroyed instead of kept as residue.
const DepletionThresholdKg = 0.0001

// ResourceType is the identity of a material kind. Two ResourceType
// entities are distinct kinds even when their names match.
type ResourceType struct {
	Name          string
	MeltingPointC float64
	Stackability  ecs.EntityID // placeholder, zero when unset
}

// Resource is a mass of one ResourceType.
type Resource struct {
	Type   ecs.EntityID
	MassKg float64
}

// Depleted reports whether the mass has fallen under DepletionThresholdKg.
func (r *Resource) Depleted() bool {
	return r.MassKg < DepletionThresholdKg
}
