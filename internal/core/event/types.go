package event

import "github.com/spacestation/sim/internal/core/ecs"

// Kind tags one member of the closed set of event payloads.
type Kind uint16

const (
	KindInvalid Kind = iota
	KindProducerInspected
	KindProductionBlocked
	KindIngredientShortage
	KindResourceProduced
	KindResourceConsumed
	KindResourceDepleted
	KindPopUpdate
	KindScriptMessage
)

// BuiltinKinds lists every kind in the order NewDefaultRegistry assigns IDs.
// Append only: reordering changes the numeric IDs written to the journal.
var BuiltinKinds = []Kind{
	KindProducerInspected,
	KindProductionBlocked,
	KindIngredientShortage,
	KindResourceProduced,
	KindResourceConsumed,
	KindResourceDepleted,
	KindPopUpdate,
	KindScriptMessage,
}

var kindNames = map[Kind]string{
	KindInvalid:            "invalid",
	KindProducerInspected:  "producer_inspected",
	KindProductionBlocked:  "production_blocked",
	KindIngredientShortage: "ingredient_shortage",
	KindResourceProduced:   "resource_produced",
	KindResourceConsumed:   "resource_consumed",
	KindResourceDepleted:   "resource_depleted",
	KindPopUpdate:          "pop_update",
	KindScriptMessage:      "script_message",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Payload is implemented by every event struct below.
type Payload interface {
	Kind() Kind
}

// Reasons carried by ProductionBlocked.
const (
	ReasonDisabled           = "disabled"
	ReasonMissingIngredients = "missing_ingredients"
	ReasonInventoryFull      = "inventory_full"
	ReasonInvalidRecipe      = "invalid_recipe"
)

// ProducerInspected is emitted for every production-capable entity on each
// resolver pass, before availability is evaluated.
type ProducerInspected struct {
	Entity   ecs.EntityID `json:"entity"`
	Name     string       `json:"name"`
	Capacity int          `json:"capacity"`
	Items    int          `json:"items"`
}

// ProductionBlocked reports a pass that left the producer untouched.
type ProductionBlocked struct {
	Entity ecs.EntityID `json:"entity"`
	Reason string       `json:"reason"`
}

// IngredientShortage names one ingredient that could not be covered.
type IngredientShortage struct {
	Entity      ecs.EntityID `json:"entity"`
	Type        ecs.EntityID `json:"type"`
	TypeName    string       `json:"type_name"`
	RequiredKg  float64      `json:"required_kg"`
	AvailableKg float64      `json:"available_kg"`
}

// ResourceProduced reports yield added to an inventory. Created is true when
// a new Resource entity was made for it.
type ResourceProduced struct {
	Entity   ecs.EntityID `json:"entity"`
	Resource ecs.EntityID `json:"resource"`
	Type     ecs.EntityID `json:"type"`
	TypeName string       `json:"type_name"`
	AmountKg float64      `json:"amount_kg"`
	MassKg   float64      `json:"mass_kg"`
	Created  bool         `json:"created"`
}

// ResourceConsumed reports ingredient mass removed from an inventory.
type ResourceConsumed struct {
	Entity   ecs.EntityID `json:"entity"`
	Resource ecs.EntityID `json:"resource"`
	Type     ecs.EntityID `json:"type"`
	TypeName string       `json:"type_name"`
	AmountKg float64      `json:"amount_kg"`
	MassKg   float64      `json:"mass_kg"`
}

// ResourceDepleted reports a Resource destroyed after falling under the
// depletion threshold.
type ResourceDepleted struct {
	Entity   ecs.EntityID `json:"entity"`
	Resource ecs.EntityID `json:"resource"`
	Type     ecs.EntityID `json:"type"`
	TypeName string       `json:"type_name"`
}

// PopUpdate is a heartbeat from the population system.
type PopUpdate struct {
	StepMs float64 `json:"step_ms"`
}

// ScriptMessage carries text emitted by a Lua system.
type ScriptMessage struct {
	Script string `json:"script"`
	Text   string `json:"text"`
}

func (ProducerInspected) Kind() Kind  { return KindProducerInspected }
func (ProductionBlocked) Kind() Kind  { return KindProductionBlocked }
func (IngredientShortage) Kind() Kind { return KindIngredientShortage }
func (ResourceProduced) Kind() Kind   { return KindResourceProduced }
func (ResourceConsumed) Kind() Kind   { return KindResourceConsumed }
func (ResourceDepleted) Kind() Kind   { return KindResourceDepleted }
func (PopUpdate) Kind() Kind          { return KindPopUpdate }
func (ScriptMessage) Kind() Kind      { return KindScriptMessage }
