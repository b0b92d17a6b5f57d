package clock

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// FixedStepMs is the simulation time advanced by one tick (60 Hz).
	FixedStepMs = 1000.0 / 60.0
	// MaxFrameMs caps the wall time credited per frame. Anything above it is
	// dropped so a starved host cannot queue an unbounded catch-up.
	MaxFrameMs = 250.0
	// DefaultFrameYield is the pause between frames in Run.
	DefaultFrameYield = time.Millisecond
)

// Stepper advances every scheduled system by one master step.
type Stepper interface {
	Update(ctx context.Context, frameDeltaMs float64)
}

// Stamper is the event bus side of a tick: stamping and flushing.
type Stamper interface {
	Update(tick int64, simTimeMs float64)
	Flush()
}

// TimeSource supplies wall-clock readings.
type TimeSource interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// Clock turns irregular wall-clock frames into whole fixed steps.
// Simulation time is always tickCount × FixedStepMs.
type Clock struct {
	stepper Stepper
	bus     Stamper
	source  TimeSource
	yield   time.Duration
	log     *zap.Logger

	previous    time.Time
	accumulator float64
	tickCount   int64
	simTimeMs   float64
	droppedMs   float64
}

type Option func(*Clock)

func WithTimeSource(ts TimeSource) Option {
	return func(c *Clock) { c.source = ts }
}

func WithFrameYield(d time.Duration) Option {
	return func(c *Clock) { c.yield = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Clock) { c.log = log }
}

// New creates a clock. The first Tick measures from construction time.
func New(stepper Stepper, bus Stamper, opts ...Option) *Clock {
	c := &Clock{
		stepper: stepper,
		bus:     bus,
		source:  systemTime{},
		yield:   DefaultFrameYield,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.previous = c.source.Now()
	return c
}

// Tick credits the wall time elapsed since the previous call (clamped to
// MaxFrameMs) and runs as many fixed steps as the accumulator holds. Each
// step stamps the bus, runs the scheduler, then flushes the bus. Once ctx is
// done no further step starts; the remaining time stays accumulated. It
// returns the number of steps executed.
func (c *Clock) Tick(ctx context.Context) int {
	now := c.source.Now()
	frameMs := float64(now.Sub(c.previous)) / float64(time.Millisecond)
	c.previous = now

	if frameMs < 0 {
		frameMs = 0
	}
	if frameMs > MaxFrameMs {
		c.droppedMs += frameMs - MaxFrameMs
		c.log.Debug("frame clamped",
			zap.Float64("frame_ms", frameMs),
			zap.Float64("dropped_total_ms", c.droppedMs),
		)
		frameMs = MaxFrameMs
	}
	c.accumulator += frameMs

	steps := 0
	for c.accumulator >= FixedStepMs && ctx.Err() == nil {
		c.bus.Update(c.tickCount, c.simTimeMs)
		c.stepper.Update(ctx, FixedStepMs)
		c.bus.Flush()

		c.accumulator -= FixedStepMs
		c.tickCount++
		c.simTimeMs = float64(c.tickCount) * FixedStepMs
		steps++
	}
	return steps
}

// Run ticks until ctx is done, pausing between frames. It returns ctx.Err().
func (c *Clock) Run(ctx context.Context) error {
	c.previous = c.source.Now()
	c.log.Info("simulation clock started",
		zap.Float64("fixed_step_ms", FixedStepMs),
		zap.Duration("frame_yield", c.yield),
	)

	var pause *time.Timer
	for ctx.Err() == nil {
		c.Tick(ctx)

		if c.yield <= 0 {
			continue
		}
		if pause == nil {
			pause = time.NewTimer(c.yield)
		} else {
			pause.Reset(c.yield)
		}
		select {
		case <-ctx.Done():
			pause.Stop()
		case <-pause.C:
		}
	}

	c.log.Info("simulation clock stopped",
		zap.Int64("ticks", c.tickCount),
		zap.Float64("sim_time_ms", c.simTimeMs),
	)
	return ctx.Err()
}

func (c *Clock) TickCount() int64          { return c.tickCount }
func (c *Clock) SimulationTime() float64   { return c.simTimeMs }
func (c *Clock) Accumulator() float64      { return c.accumulator }
func (c *Clock) DroppedFrameTime() float64 { return c.droppedMs }
