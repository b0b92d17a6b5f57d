package world

import (
	"github.com/spacestation/sim/internal/component"
	"github.com/spacestation/sim/internal/core/ecs"
)

// Store is the entity store the simulation systems run against. It owns
// the ECS world and one typed component store per component kind.
// Accessed only from the simulation goroutine — no locks needed.
//
// Getters named after a component return the stored pointer and panic with
// *ecs.MissingComponentError when the entity lacks it: a dangling reference
// is a bug, not a runtime condition.
type Store struct {
	world *ecs.World

	types       *ecs.PtrComponentStore[component.ResourceType]
	resources   *ecs.PtrComponentStore[component.Resource]
	inventories *ecs.PtrComponentStore[component.Inventory]
	recipes     *ecs.PtrComponentStore[component.Recipe]
	enabled     *ecs.PtrComponentStore[component.Enabled]
	names       *ecs.PtrComponentStore[component.Name]
}

func NewStore() *Store {
	w := ecs.NewWorld()
	return &Store{
		world:       w,
		types:       ecs.NewStore[component.ResourceType](w, "ResourceType"),
		resources:   ecs.NewStore[component.Resource](w, "Resource"),
		inventories: ecs.NewStore[component.Inventory](w, "Inventory"),
		recipes:     ecs.NewStore[component.Recipe](w, "Recipe"),
		enabled:     ecs.NewStore[component.Enabled](w, "Enabled"),
		names:       ecs.NewStore[component.Name](w, "Name"),
	}
}

// ProducerSpec describes a production-capable entity to create.
type ProducerSpec struct {
	Name      string
	Enabled   bool
	Capacity  int
	Inventory []ecs.EntityID
	Recipe    component.Recipe
}

// CreateResourceType registers a new material kind and returns its identity.
func (s *Store) CreateResourceType(t component.ResourceType) ecs.EntityID {
	id := s.world.CreateEntity()
	s.types.Set(id, &t)
	s.names.Set(id, &component.Name{Value: t.Name})
	return id
}

// CreateResource creates massKg of typ. typ must be a live ResourceType.
func (s *Store) CreateResource(typ ecs.EntityID, massKg float64) ecs.EntityID {
	t := s.types.MustGet(typ)
	id := s.world.CreateEntity()
	s.resources.Set(id, &component.Resource{Type: typ, MassKg: massKg})
	s.names.Set(id, &component.Name{Value: t.Name})
	return id
}

// CreateProducer creates an entity carrying Inventory, Recipe, Enabled and
// Name. Slices in spec are copied.
func (s *Store) CreateProducer(spec ProducerSpec) ecs.EntityID {
	id := s.world.CreateEntity()
	s.inventories.Set(id, &component.Inventory{
		Capacity: spec.Capacity,
		Items:    append(make([]ecs.EntityID, 0, len(spec.Inventory)), spec.Inventory...),
	})
	recipe := spec.Recipe
	recipe.Ingredients = append([]ecs.EntityID(nil), spec.Recipe.Ingredients...)
	recipe.Products = append([]ecs.EntityID(nil), spec.Recipe.Products...)
	s.recipes.Set(id, &recipe)
	s.enabled.Set(id, &component.Enabled{On: spec.Enabled})
	s.names.Set(id, &component.Name{Value: spec.Name})
	return id
}

// Destroy removes id with all of its components.
func (s *Store) Destroy(id ecs.EntityID) bool {
	return s.world.Destroy(id)
}

func (s *Store) Alive(id ecs.EntityID) bool {
	return s.world.Alive(id)
}

// EachProducer visits every entity with Inventory, Recipe and Enabled, in
// creation order.
func (s *Store) EachProducer(fn func(ecs.EntityID, *component.Inventory, *component.Recipe, *component.Enabled)) {
	ecs.Each3(s.inventories, s.recipes, s.enabled, fn)
}

func (s *Store) ResourceType(id ecs.EntityID) *component.ResourceType { return s.types.MustGet(id) }
func (s *Store) Resource(id ecs.EntityID) *component.Resource         { return s.resources.MustGet(id) }
func (s *Store) Inventory(id ecs.EntityID) *component.Inventory       { return s.inventories.MustGet(id) }
func (s *Store) Recipe(id ecs.EntityID) *component.Recipe             { return s.recipes.MustGet(id) }
func (s *Store) Enabled(id ecs.EntityID) *component.Enabled           { return s.enabled.MustGet(id) }

// Name returns the diagnostic label of id, or "" when it has none.
func (s *Store) Name(id ecs.EntityID) string {
	if n, ok := s.names.Get(id); ok {
		return n.Value
	}
	return ""
}

func (s *Store) SetEnabled(id ecs.EntityID, on bool) {
	s.enabled.Set(id, &component.Enabled{On: on})
}

func (s *Store) SetName(id ecs.EntityID, name string) {
	s.names.Set(id, &component.Name{Value: name})
}

func (s *Store) SetInventory(id ecs.EntityID, inv *component.Inventory) {
	s.inventories.Set(id, inv)
}

func (s *Store) SetRecipe(id ecs.EntityID, r *component.Recipe) {
	s.recipes.Set(id, r)
}

// ResourceCount returns the number of live Resource entities, templates
// included.
func (s *Store) ResourceCount() int { return s.resources.Len() }

// Producers returns the number of production-capable entities.
func (s *Store) Producers() int {
	n := 0
	s.EachProducer(func(ecs.EntityID, *component.Inventory, *component.Recipe, *component.Enabled) { n++ })
	return n
}

// InventoryMass sums the mass of typ held in producer's inventory.
func (s *Store) InventoryMass(producer, typ ecs.EntityID) float64 {
	total := 0.0
	for _, ref := range s.Inventory(producer).Items {
		if r := s.Resource(ref); r.Type == typ {
			total += r.MassKg
		}
	}
	return total
}
