package channel

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spacestation/sim/internal/core/event"
)

// Console writes one zap entry per delivered envelope.
type Console struct {
	log     *zap.Logger
	printer *message.Printer
}

func NewConsole(log *zap.Logger) *Console {
	return &Console{
		log:     log.Named("events"),
		printer: message.NewPrinter(language.English),
	}
}

func (c *Console) ReceiveBatch(batch []event.Envelope) {
	for _, env := range batch {
		c.log.Info(env.Payload.Kind().String(),
			zap.Int64("tick", env.Tick),
			zap.Float64("sim_time_ms", env.SimTimeMs),
			zap.Int32("type_id", int32(env.TypeID)),
			zap.String("detail", Describe(c.printer, env.Payload)),
		)
	}
}

// FormatEnvelope renders an envelope as a single human-readable line.
func FormatEnvelope(p *message.Printer, env event.Envelope) string {
	return p.Sprintf("#%d t=%.1fms %-19s %s",
		env.Tick, env.SimTimeMs, env.Payload.Kind().String(), Describe(p, env.Payload))
}

// Describe summarises a payload. Masses are printed with digit grouping.
func Describe(p *message.Printer, payload event.Payload) string {
	switch e := payload.(type) {
	case event.ProducerInspected:
		return p.Sprintf("%s [%s] holds %d/%d", e.Name, e.Entity, e.Items, e.Capacity)
	case event.ProductionBlocked:
		return p.Sprintf("[%s] blocked: %s", e.Entity, e.Reason)
	case event.IngredientShortage:
		return p.Sprintf("[%s] short of %s: need %.4f kg, have %.4f kg",
			e.Entity, e.TypeName, e.RequiredKg, e.AvailableKg)
	case event.ResourceProduced:
		verb := "topped up"
		if e.Created {
			verb = "created"
		}
		return p.Sprintf("[%s] %s %s [%s] +%.4f kg = %.4f kg",
			e.Entity, verb, e.TypeName, e.Resource, e.AmountKg, e.MassKg)
	case event.ResourceConsumed:
		return p.Sprintf("[%s] used %s [%s] -%.4f kg = %.4f kg",
			e.Entity, e.TypeName, e.Resource, e.AmountKg, e.MassKg)
	case event.ResourceDepleted:
		return p.Sprintf("[%s] %s [%s] depleted", e.Entity, e.TypeName, e.Resource)
	case event.PopUpdate:
		return p.Sprintf("step %.3f ms", e.StepMs)
	case event.ScriptMessage:
		return fmt.Sprintf("%s: %s", e.Script, e.Text)
	}
	return fmt.Sprintf("%+v", payload)
}
