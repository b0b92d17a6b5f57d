package system

import (
	"context"
	"fmt"
)

type scheduled struct {
	system      System
	periodMs    float64
	accumulator float64
}

// Record is a read-only view of one scheduled system.
type Record struct {
	Name          string
	PeriodMs      float64
	AccumulatorMs float64
}

// Scheduler fans one master step out to systems running at their own rates.
// Each system owns an accumulator; a system registered at 4 updates/sec runs
// once per 250ms of accumulated frame time regardless of the master rate.
type Scheduler struct {
	systems []*scheduled
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		systems: make([]*scheduled, 0, 16),
	}
}

// RegisterSystem appends s with period 1000/updatesPerSecond ms. It returns
// the scheduler for chained registration. A non-positive rate panics.
func (r *Scheduler) RegisterSystem(s System, updatesPerSecond float64) *Scheduler {
	if !(updatesPerSecond > 0) {
		panic(fmt.Sprintf("system: register %s: updates per second must be positive, got %v", nameOf(s), updatesPerSecond))
	}
	r.systems = append(r.systems, &scheduled{
		system:   s,
		periodMs: 1000 / updatesPerSecond,
	})
	return r
}

// Update adds frameDeltaMs to every system's accumulator in registration
// order and runs each system once per whole period held. Cancellation is
// checked before each system and before each catch-up iteration; time not
// consumed stays in the accumulator for the next call.
func (r *Scheduler) Update(ctx context.Context, frameDeltaMs float64) {
	for _, s := range r.systems {
		if ctx.Err() != nil {
			return
		}
		s.accumulator += frameDeltaMs
		for s.accumulator >= s.periodMs && ctx.Err() == nil {
			s.system.Update(ctx, s.periodMs)
			s.accumulator -= s.periodMs
		}
	}
}

func (r *Scheduler) Len() int { return len(r.systems) }

// Records returns a snapshot of the schedule in registration order.
func (r *Scheduler) Records() []Record {
	out := make([]Record, len(r.systems))
	for i, s := range r.systems {
		out[i] = Record{
			Name:          nameOf(s.system),
			PeriodMs:      s.periodMs,
			AccumulatorMs: s.accumulator,
		}
	}
	return out
}

func nameOf(s System) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
