package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/spacestation/sim/internal/core/event"
)

// PopSystem emits a PopUpdate heartbeat on every invocation.
type PopSystem struct {
	bus Emitter
	log *zap.Logger
}

func NewPopSystem(bus Emitter, log *zap.Logger) *PopSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PopSystem{bus: bus, log: log}
}

func (s *PopSystem) Name() string { return "pop" }

func (s *PopSystem) Update(_ context.Context, stepMs float64) {
	if err := s.bus.Emit(event.PopUpdate{StepMs: stepMs}); err != nil {
		s.log.Error("pop event dropped", zap.Error(err))
	}
}
