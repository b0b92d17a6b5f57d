package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// JournalRow is one delivered event as written to event_journal.
type JournalRow struct {
	RunID     uuid.UUID
	Tick      int64
	SimTimeMs float64
	TypeID    int32
	Kind      string
	Payload   []byte // JSON
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// AppendBatch writes a whole flushed batch in a single transaction, so a
// batch is either fully journaled or not at all.
func (r *JournalRepo) AppendBatch(ctx context.Context, rows []JournalRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_journal (run_id, tick, sim_time_ms, type_id, kind, payload)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			row.RunID, row.Tick, row.SimTimeMs, row.TypeID, row.Kind, row.Payload,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

// CountRun returns how many rows were journaled for one run.
func (r *JournalRepo) CountRun(ctx context.Context, runID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM event_journal WHERE run_id = $1`, runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}
