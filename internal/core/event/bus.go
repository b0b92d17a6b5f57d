package event

import "fmt"

// Envelope wraps a payload with the tick stamp current at emit time.
type Envelope struct {
	Tick      int64
	SimTimeMs float64
	TypeID    TypeID
	Payload   Payload
}

// Channel consumes flushed batches. ReceiveBatch runs synchronously inside
// Flush, so it stalls the whole tick until it returns. The batch is shared
// between channels and must be treated as read-only.
type Channel interface {
	ReceiveBatch(batch []Envelope)
}

// ChannelFunc adapts a function to Channel.
type ChannelFunc func(batch []Envelope)

func (f ChannelFunc) ReceiveBatch(batch []Envelope) { f(batch) }

// Bus collects envelopes during a tick and hands them to every channel at
// Flush. Single-goroutine use only (game loop).
type Bus struct {
	registry  *Registry
	pending   []Envelope
	channels  []Channel
	tick      int64
	simTimeMs float64
}

func NewBus(reg *Registry) *Bus {
	return &Bus{
		registry: reg,
		pending:  make([]Envelope, 0, 64),
		channels: make([]Channel, 0, 4),
	}
}

func (b *Bus) Registry() *Registry { return b.registry }

// Emit stamps p with the current tick and time and queues it for the next
// Flush. An unregistered kind is a wiring defect and is returned as an error.
func (b *Bus) Emit(p Payload) error {
	id, err := b.registry.ID(p.Kind())
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	b.pending = append(b.pending, Envelope{
		Tick:      b.tick,
		SimTimeMs: b.simTimeMs,
		TypeID:    id,
		Payload:   p,
	})
	return nil
}

// Flush delivers everything emitted since the last Flush. The pending list
// is cleared before the first channel runs, so emits made from inside a
// channel land in the next batch.
func (b *Bus) Flush() {
	if len(b.pending) == 0 {
		return
	}
	batch := make([]Envelope, len(b.pending))
	copy(batch, b.pending)
	b.pending = b.pending[:0]

	for _, ch := range b.channels {
		ch.ReceiveBatch(batch)
	}
}

// Update sets the stamp used by subsequent Emit calls.
func (b *Bus) Update(tick int64, simTimeMs float64) {
	b.tick = tick
	b.simTimeMs = simTimeMs
}

// Stamp returns the tick and time Emit currently applies.
func (b *Bus) Stamp() (int64, float64) { return b.tick, b.simTimeMs }

func (b *Bus) RegisterChannel(ch Channel) {
	b.channels = append(b.channels, ch)
}

func (b *Bus) Pending() int { return len(b.pending) }

func (b *Bus) Channels() int { return len(b.channels) }
