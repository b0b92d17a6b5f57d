package channel

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spacestation/sim/internal/core/ecs"
	"github.com/spacestation/sim/internal/core/event"
)

var (
	smelter = ecs.NewEntityID(3, 1)
	ore     = ecs.NewEntityID(1, 1)
	coal    = ecs.NewEntityID(0, 1)
	iron    = ecs.NewEntityID(2, 1)
)

func sampleBatch() []event.Envelope {
	return []event.Envelope{
		{Tick: 0, SimTimeMs: 0, TypeID: 1, Payload: event.ProducerInspected{Entity: smelter, Name: "smelter", Capacity: 10, Items: 2}},
		{Tick: 60, SimTimeMs: 1000, TypeID: 3, Payload: event.IngredientShortage{Entity: smelter, Type: coal, TypeName: "coal", RequiredKg: 0.8, AvailableKg: 0.05}},
		{Tick: 60, SimTimeMs: 1000, TypeID: 2, Payload: event.ProductionBlocked{Entity: smelter, Reason: event.ReasonMissingIngredients}},
		{Tick: 120, SimTimeMs: 2000, TypeID: 4, Payload: event.ResourceProduced{Entity: smelter, Resource: ecs.NewEntityID(7, 1), Type: iron, TypeName: "iron", AmountKg: 0.26, MassKg: 1234.5}},
		{Tick: 120, SimTimeMs: 2000, TypeID: 5, Payload: event.ResourceConsumed{Entity: smelter, Resource: ecs.NewEntityID(5, 2), Type: ore, TypeName: "iron ore", AmountKg: 0.8, MassKg: 419.43}},
		{Tick: 120, SimTimeMs: 2000, TypeID: 6, Payload: event.ResourceDepleted{Entity: smelter, Resource: ecs.NewEntityID(6, 1), Type: coal, TypeName: "coal"}},
		{Tick: 180, SimTimeMs: 3000, TypeID: 7, Payload: event.PopUpdate{StepMs: 1000}},
		{Tick: 180, SimTimeMs: 3000, TypeID: 8, Payload: event.ScriptMessage{Script: "greenhouse", Text: "grew 500"}},
	}
}

func TestFormatEnvelope_Golden(t *testing.T) {
	p := message.NewPrinter(language.English)
	var lines []string
	for _, env := range sampleBatch() {
		lines = append(lines, FormatEnvelope(p, env))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "console_lines", []byte(strings.Join(lines, "\n")+"\n"))
}

func TestConsole_OneEntryPerEnvelope(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := NewConsole(zap.New(core))

	c.ReceiveBatch(sampleBatch())

	entries := logs.All()
	assert.Len(t, entries, 8)
	assert.Equal(t, "producer_inspected", entries[0].Message)
	assert.Equal(t, "events", entries[0].LoggerName)
	fields := entries[7].ContextMap()
	assert.Equal(t, int64(180), fields["tick"])
	assert.Equal(t, "greenhouse: grew 500", fields["detail"])
}
