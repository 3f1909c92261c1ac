package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BeginTrace creates a trace record and returns its id.
func (s *Store) BeginTrace(ctx context.Context, label string, initialCount int) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO traces (id, label, initial_count)
		VALUES (?, ?, ?)
	`, id, label, initialCount)
	if err != nil {
		return "", fmt.Errorf("begin trace: %w", err)
	}
	return id, nil
}

// WriteEvent inserts one event and its update records in a single
// transaction. Duplicate (trace, seq) pairs are silently ignored so a
// retried write stays idempotent.
func (s *Store) WriteEvent(ctx context.Context, traceID string, ev Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write event: begin tx: %w", err)
	}
	defer tx.Rollback()

	cancel := 0
	if ev.Cancel {
		cancel = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events
		(trace_id, seq, kind, from_index, remove_count, insert_count, priority, size, cancel)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trace_id, seq) DO NOTHING
	`, traceID, ev.Seq, string(ev.Kind), ev.From, ev.Remove, ev.Insert, ev.Priority, float64(ev.Size), cancel)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	for ord, u := range ev.Updates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO updates
			(trace_id, event_seq, ord, render_index, old_count, new_count, mode)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(trace_id, event_seq, ord) DO NOTHING
		`, traceID, ev.Seq, ord, u.RenderIndex, u.OldRenderCount, u.NewRenderCount, u.Mode.String())
		if err != nil {
			return fmt.Errorf("write update record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write event: commit: %w", err)
	}
	return nil
}

// DeleteTrace removes a trace and, through the cascade, its events and
// update records.
func (s *Store) DeleteTrace(ctx context.Context, traceID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, traceID); err != nil {
		return fmt.Errorf("delete trace: %w", err)
	}
	return nil
}
