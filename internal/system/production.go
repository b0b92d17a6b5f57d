package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/spacestation/sim/internal/component"
	"github.com/spacestation/sim/internal/core/ecs"
	"github.com/spacestation/sim/internal/core/event"
)

// ProductionStore is the slice of the entity store the resolver needs.
// Component getters panic on a missing component (dangling reference).
type ProductionStore interface {
	EachProducer(fn func(ecs.EntityID, *component.Inventory, *component.Recipe, *component.Enabled))
	Resource(id ecs.EntityID) *component.Resource
	ResourceType(id ecs.EntityID) *component.ResourceType
	CreateResource(typ ecs.EntityID, massKg float64) ecs.EntityID
	Destroy(id ecs.EntityID) bool
	Name(id ecs.EntityID) string
}

// Emitter queues diagnostic events.
type Emitter interface {
	Emit(p event.Payload) error
}

// ProductionOptions tunes the resolver.
type ProductionOptions struct {
	// ShortCircuit stops the availability check at the first missing
	// ingredient. Off by default so every shortage is reported.
	ShortCircuit bool
}

// ProductionStats counts resolver outcomes since construction.
type ProductionStats struct {
	Passes     int
	Crafts     int
	Blocked    int
	EmitErrors int
}

// ProductionSystem resolves recipes for every enabled producer whose
// inventory covers the ingredients: it adds yield to (or creates) product
// resources, then draws the ingredients down, destroying any resource left
// under component.DepletionThresholdKg. A producer that cannot craft is left
// untouched. Resources are matched by ResourceType identity, never by name.
type ProductionSystem struct {
	store ProductionStore
	bus   Emitter
	opts  ProductionOptions
	log   *zap.Logger
	stats ProductionStats
}

func NewProductionSystem(store ProductionStore, bus Emitter, opts ProductionOptions, log *zap.Logger) *ProductionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductionSystem{store: store, bus: bus, opts: opts, log: log}
}

func (s *ProductionSystem) Name() string { return "production" }

func (s *ProductionSystem) Stats() ProductionStats { return s.stats }

func (s *ProductionSystem) Update(_ context.Context, _ float64) {
	s.stats.Passes++
	s.store.EachProducer(s.resolve)
}

// draw is the total mass taken from one held resource by this craft.
type draw struct {
	held ecs.EntityID
	kg   float64
}

func (s *ProductionSystem) resolve(id ecs.EntityID, inv *component.Inventory, rec *component.Recipe, en *component.Enabled) {
	s.emit(event.ProducerInspected{
		Entity:   id,
		Name:     s.store.Name(id),
		Capacity: inv.Capacity,
		Items:    len(inv.Items),
	})

	if !en.On {
		s.block(id, event.ReasonDisabled)
		return
	}
	if !(rec.SpeedMultiplier > 0) || !(rec.EfficiencyMultiplier > 0) {
		s.block(id, event.ReasonInvalidRecipe)
		return
	}

	draws, ok := s.checkIngredients(id, inv, rec)
	if !ok {
		s.block(id, event.ReasonMissingIngredients)
		return
	}
	if inv.Capacity > 0 && len(inv.Items)+s.newSlots(inv, rec) > inv.Capacity {
		s.block(id, event.ReasonInventoryFull)
		return
	}

	s.produce(id, inv, rec)
	s.consume(id, inv, draws)
	s.stats.Crafts++
}

// checkIngredients finds, for every ingredient, an inventory resource of the
// same type holding at least base mass × speed not already promised to an
// earlier ingredient. Nothing is mutated.
func (s *ProductionSystem) checkIngredients(id ecs.EntityID, inv *component.Inventory, rec *component.Recipe) ([]draw, bool) {
	draws := make([]draw, 0, len(rec.Ingredients))
	ok := true
	for _, ref := range rec.Ingredients {
		want := s.store.Resource(ref)
		need := want.MassKg * rec.SpeedMultiplier

		held, available := s.findStock(inv, want.Type, need, draws)
		if held.IsZero() {
			ok = false
			s.emit(event.IngredientShortage{
				Entity:      id,
				Type:        want.Type,
				TypeName:    s.store.ResourceType(want.Type).Name,
				RequiredKg:  need,
				AvailableKg: available,
			})
			if s.opts.ShortCircuit {
				return nil, false
			}
			continue
		}
		draws = addDraw(draws, held, need)
	}
	return draws, ok
}

// findStock returns the first inventory resource of typ that still covers
// need after earlier draws. When none does it returns the zero ID and the
// largest uncommitted mass of typ seen.
func (s *ProductionSystem) findStock(inv *component.Inventory, typ ecs.EntityID, need float64, draws []draw) (ecs.EntityID, float64) {
	best := 0.0
	for _, ref := range inv.Items {
		r := s.store.Resource(ref)
		if r.Type != typ {
			continue
		}
		free := r.MassKg - drawn(draws, ref)
		if free >= need {
			return ref, free
		}
		if free > best {
			best = free
		}
	}
	return 0, best
}

// newSlots counts product types with no resource in the inventory yet.
func (s *ProductionSystem) newSlots(inv *component.Inventory, rec *component.Recipe) int {
	n := 0
	seen := make([]ecs.EntityID, 0, len(rec.Products))
	for _, ref := range rec.Products {
		typ := s.store.Resource(ref).Type
		if containsID(seen, typ) || !s.findType(inv, typ).IsZero() {
			continue
		}
		seen = append(seen, typ)
		n++
	}
	return n
}

func (s *ProductionSystem) produce(id ecs.EntityID, inv *component.Inventory, rec *component.Recipe) {
	for _, ref := range rec.Products {
		tmpl := s.store.Resource(ref)
		amount := tmpl.MassKg * rec.EfficiencyMultiplier * rec.SpeedMultiplier
		typeName := s.store.ResourceType(tmpl.Type).Name

		if held := s.findType(inv, tmpl.Type); !held.IsZero() {
			r := s.store.Resource(held)
			r.MassKg += amount
			s.emit(event.ResourceProduced{
				Entity: id, Resource: held, Type: tmpl.Type, TypeName: typeName,
				AmountKg: amount, MassKg: r.MassKg,
			})
			continue
		}

		created := s.store.CreateResource(tmpl.Type, amount)
		inv.Items = append(inv.Items, created)
		s.emit(event.ResourceProduced{
			Entity: id, Resource: created, Type: tmpl.Type, TypeName: typeName,
			AmountKg: amount, MassKg: amount, Created: true,
		})
	}
}

func (s *ProductionSystem) consume(id ecs.EntityID, inv *component.Inventory, draws []draw) {
	for _, d := range draws {
		r := s.store.Resource(d.held)
		r.MassKg -= d.kg
		typeName := s.store.ResourceType(r.Type).Name
		s.emit(event.ResourceConsumed{
			Entity: id, Resource: d.held, Type: r.Type, TypeName: typeName,
			AmountKg: d.kg, MassKg: r.MassKg,
		})

		if !r.Depleted() {
			continue
		}
		typ := r.Type
		inv.Items = removeID(inv.Items, d.held)
		s.store.Destroy(d.held)
		s.emit(event.ResourceDepleted{Entity: id, Resource: d.held, Type: typ, TypeName: typeName})
	}
}

func (s *ProductionSystem) findType(inv *component.Inventory, typ ecs.EntityID) ecs.EntityID {
	for _, ref := range inv.Items {
		if s.store.Resource(ref).Type == typ {
			return ref
		}
	}
	return 0
}

func (s *ProductionSystem) block(id ecs.EntityID, reason string) {
	s.stats.Blocked++
	s.emit(event.ProductionBlocked{Entity: id, Reason: reason})
}

func (s *ProductionSystem) emit(p event.Payload) {
	if err := s.bus.Emit(p); err != nil {
		s.stats.EmitErrors++
		s.log.Error("production event dropped", zap.Stringer("kind", p.Kind()), zap.Error(err))
	}
}

func addDraw(draws []draw, held ecs.EntityID, kg float64) []draw {
	for i := range draws {
		if draws[i].held == held {
			draws[i].kg += kg
			return draws
		}
	}
	return append(draws, draw{held: held, kg: kg})
}

func drawn(draws []draw, held ecs.EntityID) float64 {
	for _, d := range draws {
		if d.held == held {
			return d.kg
		}
	}
	return 0
}

func containsID(ids []ecs.EntityID, id ecs.EntityID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// removeID deletes id from ids in place, keeping order.
func removeID(ids []ecs.EntityID, id ecs.EntityID) []ecs.EntityID {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
