package channel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/spacestation/sim/internal/core/event"
	"github.com/spacestation/sim/internal/persist"
)

// JournalWriter is the storage side of the journal. *persist.JournalRepo
// implements it.
type JournalWriter interface {
	AppendBatch(ctx context.Context, rows []persist.JournalRow) error
}

// Journal appends every flushed batch to the event journal, tagged with a
// per-process run id. A failed write is logged and the batch is dropped; the
// tick never waits longer than the write timeout.
type Journal struct {
	ctx     context.Context
	repo    JournalWriter
	runID   uuid.UUID
	timeout time.Duration
	log     *zap.Logger

	written int
	dropped int
}

func NewJournal(ctx context.Context, repo JournalWriter, timeout time.Duration, log *zap.Logger) (*Journal, error) {
	runID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Journal{ctx: ctx, repo: repo, runID: runID, timeout: timeout, log: log}, nil
}

func (j *Journal) RunID() uuid.UUID { return j.runID }

// Written and Dropped count envelopes, not batches.
func (j *Journal) Written() int { return j.written }
func (j *Journal) Dropped() int { return j.dropped }

func (j *Journal) ReceiveBatch(batch []event.Envelope) {
	rows := make([]persist.JournalRow, 0, len(batch))
	for _, env := range batch {
		payload, err := json.Marshal(env.Payload)
		if err != nil {
			j.log.Error("journal encode", zap.Stringer("kind", env.Payload.Kind()), zap.Error(err))
			j.dropped++
			continue
		}
		rows = append(rows, persist.JournalRow{
			RunID:     j.runID,
			Tick:      env.Tick,
			SimTimeMs: env.SimTimeMs,
			TypeID:    int32(env.TypeID),
			Kind:      env.Payload.Kind().String(),
			Payload:   norm.NFC.Bytes(payload),
		})
	}
	if len(rows) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()
	if err := j.repo.AppendBatch(ctx, rows); err != nil {
		j.dropped += len(rows)
		j.log.Warn("journal batch dropped",
			zap.Int("events", len(rows)),
			zap.Int64("tick", rows[0].Tick),
			zap.Error(err))
		return
	}
	j.written += len(rows)
}
