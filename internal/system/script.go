package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/spacestation/sim/internal/core/event"
	"github.com/spacestation/sim/internal/scripting"
)

// ScriptSystem runs one Lua script's update function per invocation. Text
// the script emits becomes ScriptMessage events. A failing script is logged
// and counted; it never stops the tick.
type ScriptSystem struct {
	engine   *scripting.Engine
	script   *scripting.Script
	bus      Emitter
	log      *zap.Logger
	failures int
}

func NewScriptSystem(engine *scripting.Engine, script *scripting.Script, bus Emitter, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptSystem{engine: engine, script: script, bus: bus, log: log}
}

func (s *ScriptSystem) Name() string { return "script:" + s.script.Name }

// Failures returns how many update calls raised a Lua error.
func (s *ScriptSystem) Failures() int { return s.failures }

func (s *ScriptSystem) Update(_ context.Context, stepMs float64) {
	err := s.engine.Update(s.script, stepMs, func(text string) {
		if err := s.bus.Emit(event.ScriptMessage{Script: s.script.Name, Text: text}); err != nil {
			s.log.Error("script event dropped", zap.String("script", s.script.Name), zap.Error(err))
		}
	})
	if err != nil {
		s.failures++
		s.log.Warn("script update failed", zap.String("script", s.script.Name), zap.Error(err))
	}
}
