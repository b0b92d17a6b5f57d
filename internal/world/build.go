package world

import (
	"fmt"

	"github.com/spacestation/sim/internal/component"
	"github.com/spacestation/sim/internal/core/ecs"
	"github.com/spacestation/sim/internal/data"
)

// Built maps scenario keys and producer names to the entities created for
// them.
type Built struct {
	Types     map[string]ecs.EntityID
	Producers map[string]ecs.EntityID
}

// Build creates the scenario's resource types, inventories, recipe
// templates and producers in s.
func Build(s *Store, sc *data.Scenario) (*Built, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	b := &Built{
		Types:     make(map[string]ecs.EntityID, len(sc.ResourceTypes)),
		Producers: make(map[string]ecs.EntityID, len(sc.Producers)),
	}
	for _, rt := range sc.ResourceTypes {
		name := rt.Name
		if name == "" {
			name = rt.Key
		}
		b.Types[rt.Key] = s.CreateResourceType(component.ResourceType{
			Name:          name,
			MeltingPointC: rt.MeltingPointC,
		})
	}

	stacks := func(defs []data.StackDef) []ecs.EntityID {
		ids := make([]ecs.EntityID, 0, len(defs))
		for _, d := range defs {
			ids = append(ids, s.CreateResource(b.Types[d.Type], d.MassKg))
		}
		return ids
	}
	for _, p := range sc.Producers {
		if _, dup := b.Producers[p.Name]; dup {
			return nil, fmt.Errorf("build world: duplicate producer name %q", p.Name)
		}
		b.Producers[p.Name] = s.CreateProducer(ProducerSpec{
			Name:      p.Name,
			Enabled:   p.IsEnabled(),
			Capacity:  p.Capacity,
			Inventory: stacks(p.Inventory),
			Recipe: component.Recipe{
				Ingredients:          stacks(p.Recipe.Ingredients),
				Products:             stacks(p.Recipe.Products),
				SpeedMultiplier:      p.Recipe.Speed,
				EfficiencyMultiplier: p.Recipe.Efficiency,
			},
		})
	}
	return b, nil
}
