package component

import "github.com/spacestation/sim/internal/core/ecs"

// Inventory holds references to live Resource entities, in insertion order.
// Stored by pointer: systems mutate Items in place.
type Inventory struct {
	Capacity int
	Items    []ecs.EntityID
}

// Full reports whether no further item reference fits.
func (inv *Inventory) Full() bool {
	return inv.Capacity > 0 && len(inv.Items) >= inv.Capacity
}

// Recipe lists template Resource entities: each one's type and mass give an
// ingredient requirement or a product base yield.
type Recipe struct {
	Ingredients          []ecs.EntityID
	Products             []ecs.EntityID
	SpeedMultiplier      float64 // scales consumption and yield
	EfficiencyMultiplier float64 // scales yield only
}

// Enabled gates production.
type Enabled struct {
	On bool
}

// Name is a diagnostic label, never used for matching.
type Name struct {
	Value string
}
