package channel

import "github.com/spacestation/sim/internal/core/event"

// Recorder keeps every batch it receives, in delivery order.
type Recorder struct {
	batches [][]event.Envelope
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) ReceiveBatch(batch []event.Envelope) {
	r.batches = append(r.batches, batch)
}

func (r *Recorder) Batches() [][]event.Envelope { return r.batches }

// Envelopes flattens all recorded batches.
func (r *Recorder) Envelopes() []event.Envelope {
	var out []event.Envelope
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

// OfKind returns the recorded payloads of one kind.
func (r *Recorder) OfKind(kind event.Kind) []event.Payload {
	var out []event.Payload
	for _, b := range r.batches {
		for _, env := range b {
			if env.Payload.Kind() == kind {
				out = append(out, env.Payload)
			}
		}
	}
	return out
}

func (r *Recorder) Reset() { r.batches = nil }
