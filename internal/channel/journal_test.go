package channel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacestation/sim/internal/core/event"
	"github.com/spacestation/sim/internal/persist"
)

type fakeRepo struct {
	batches  [][]persist.JournalRow
	err      error
	deadline bool
}

func (f *fakeRepo) AppendBatch(ctx context.Context, rows []persist.JournalRow) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, rows)
	return nil
}

func TestJournal_WritesOneRowPerEnvelope(t *testing.T) {
	repo := &fakeRepo{}
	j, err := NewJournal(context.Background(), repo, time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), j.RunID().Version())

	j.ReceiveBatch(sampleBatch())

	require.Len(t, repo.batches, 1)
	rows := repo.batches[0]
	require.Len(t, rows, 8)
	assert.True(t, repo.deadline)
	assert.Equal(t, 8, j.Written())
	assert.Zero(t, j.Dropped())

	row := rows[1]
	assert.Equal(t, j.RunID(), row.RunID)
	assert.Equal(t, int64(60), row.Tick)
	assert.Equal(t, 1000.0, row.SimTimeMs)
	assert.Equal(t, int32(3), row.TypeID)
	assert.Equal(t, "ingredient_shortage", row.Kind)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(row.Payload, &decoded))
	assert.Equal(t, "coal", decoded["type_name"])
	assert.Equal(t, 0.8, decoded["required_kg"])
}

func TestJournal_FailedWriteDropsBatch(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	j, err := NewJournal(context.Background(), repo, 10*time.Millisecond, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { j.ReceiveBatch(sampleBatch()) })
	assert.Zero(t, j.Written())
	assert.Equal(t, 8, j.Dropped())

	repo.err = nil
	j.ReceiveBatch(sampleBatch()[:2])
	assert.Equal(t, 2, j.Written())
}

func TestJournal_BusDelivery(t *testing.T) {
	repo := &fakeRepo{}
	j, err := NewJournal(context.Background(), repo, time.Second, nil)
	require.NoError(t, err)

	bus := event.NewBus(event.NewDefaultRegistry())
	bus.RegisterChannel(j)
	bus.Update(5, 83.3)
	require.NoError(t, bus.Emit(event.PopUpdate{StepMs: 1000}))
	bus.Flush()
	bus.Flush()

	require.Len(t, repo.batches, 1)
	assert.Equal(t, int64(5), repo.batches[0][0].Tick)
	assert.Equal(t, "pop_update", repo.batches[0][0].Kind)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	batch := sampleBatch()
	r.ReceiveBatch(batch[:3])
	r.ReceiveBatch(batch[3:])

	assert.Len(t, r.Batches(), 2)
	assert.Equal(t, batch, r.Envelopes())
	assert.Len(t, r.OfKind(event.KindResourceConsumed), 1)
	assert.Empty(t, r.OfKind(event.KindInvalid))

	r.Reset()
	assert.Empty(t, r.Envelopes())
}
