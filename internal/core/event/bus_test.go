package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder keeps every batch it receives.
type recorder struct {
	batches [][]Envelope
}

func (r *recorder) ReceiveBatch(batch []Envelope) {
	r.batches = append(r.batches, batch)
}

type unknownPayload struct{}

func (unknownPayload) Kind() Kind { return Kind(999) }

func newTestBus() *Bus {
	return NewBus(NewDefaultRegistry())
}

func TestBus_UpdateSetsStamp(t *testing.T) {
	b := newTestBus()
	b.Update(42, 1000)

	tick, tm := b.Stamp()
	assert.Equal(t, int64(42), tick)
	assert.Equal(t, 1000.0, tm)
}

func TestBus_EmitWrapsPayload(t *testing.T) {
	b := newTestBus()
	b.Update(5, 100)

	p := ScriptMessage{Script: "s", Text: "hello"}
	require.NoError(t, b.Emit(p))
	require.Equal(t, 1, b.Pending())

	rec := &recorder{}
	b.RegisterChannel(rec)
	b.Flush()

	require.Len(t, rec.batches, 1)
	env := rec.batches[0][0]
	assert.Equal(t, int64(5), env.Tick)
	assert.Equal(t, 100.0, env.SimTimeMs)
	wantID, err := b.Registry().ID(KindScriptMessage)
	require.NoError(t, err)
	assert.Equal(t, wantID, env.TypeID)
	assert.Equal(t, p, env.Payload)
}

func TestBus_EmitUnregisteredKindFails(t *testing.T) {
	b := newTestBus()

	err := b.Emit(unknownPayload{})
	assert.ErrorIs(t, err, ErrUnregisteredKind)
	assert.Zero(t, b.Pending())
}

func TestBus_FlushDeliversSameOrderedBatchToEveryChannel(t *testing.T) {
	b := newTestBus()
	first, second := &recorder{}, &recorder{}
	b.RegisterChannel(first)
	b.RegisterChannel(second)
	require.Equal(t, 2, b.Channels())

	for _, text := range []string{"First", "Second", "Third"} {
		require.NoError(t, b.Emit(ScriptMessage{Text: text}))
	}
	b.Flush()

	require.Len(t, first.batches, 1)
	require.Len(t, second.batches, 1)
	got := first.batches[0]
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Payload.(ScriptMessage).Text)
	assert.Equal(t, "Second", got[1].Payload.(ScriptMessage).Text)
	assert.Equal(t, "Third", got[2].Payload.(ScriptMessage).Text)

	// Both channels share one backing array.
	assert.Same(t, &first.batches[0][0], &second.batches[0][0])
	assert.Zero(t, b.Pending())
}

func TestBus_FlushWithNothingPendingSkipsChannels(t *testing.T) {
	b := newTestBus()
	rec := &recorder{}
	b.RegisterChannel(rec)

	b.Flush()
	assert.Empty(t, rec.batches)

	require.NoError(t, b.Emit(PopUpdate{StepMs: 500}))
	b.Flush()
	b.Flush()
	assert.Len(t, rec.batches, 1, "second flush with no new emits is a no-op")
}

func TestBus_FlushWithNoChannelsClearsPending(t *testing.T) {
	b := newTestBus()
	require.NoError(t, b.Emit(PopUpdate{}))

	assert.NotPanics(t, b.Flush)
	assert.Zero(t, b.Pending())
}

func TestBus_EmitDuringReceiptLandsInNextFlush(t *testing.T) {
	b := newTestBus()
	var sizes []int
	reentrant := ChannelFunc(func(batch []Envelope) {
		sizes = append(sizes, len(batch))
		if len(sizes) == 1 {
			require.NoError(t, b.Emit(ScriptMessage{Text: "echo"}))
		}
	})
	tail := &recorder{}
	b.RegisterChannel(reentrant)
	b.RegisterChannel(tail)

	require.NoError(t, b.Emit(ScriptMessage{Text: "origin"}))
	b.Flush()

	require.Len(t, tail.batches, 1)
	assert.Len(t, tail.batches[0], 1, "echo must not join the batch in flight")
	assert.Equal(t, 1, b.Pending())

	b.Flush()
	assert.Equal(t, []int{1, 1}, sizes)
	require.Len(t, tail.batches, 2)
	assert.Equal(t, "echo", tail.batches[1][0].Payload.(ScriptMessage).Text)
}

func TestBus_MultipleFlushCyclesCarryTheirOwnStamp(t *testing.T) {
	b := newTestBus()
	rec := &recorder{}
	b.RegisterChannel(rec)

	b.Update(1, 100)
	require.NoError(t, b.Emit(ScriptMessage{Text: "Batch1"}))
	b.Flush()

	b.Update(2, 200)
	require.NoError(t, b.Emit(PopUpdate{StepMs: 42}))
	b.Flush()

	require.Len(t, rec.batches, 2)
	require.Len(t, rec.batches[0], 1)
	require.Len(t, rec.batches[1], 1)
	assert.Equal(t, int64(1), rec.batches[0][0].Tick)
	assert.Equal(t, int64(2), rec.batches[1][0].Tick)
}
