package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// ErrTraceNotFound is returned when a trace id does not exist.
var ErrTraceNotFound = errors.New("trace not found")

// ReadTrace loads a trace with its events ordered by sequence number.
func (s *Store) ReadTrace(ctx context.Context, traceID string) (Trace, error) {
	var tr Trace
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, label, initial_count, created_at
		FROM traces WHERE id = ?
	`, traceID).Scan(&tr.ID, &tr.Label, &tr.InitialCount, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return tr, fmt.Errorf("read trace %s: %w", traceID, ErrTraceNotFound)
	}
	if err != nil {
		return tr, fmt.Errorf("read trace: %w", err)
	}
	tr.CreatedAt = parseTimestamp(created)

	events, err := s.readEvents(ctx, traceID)
	if err != nil {
		return tr, fmt.Errorf("read trace: %w", err)
	}
	tr.Events = events
	return tr, nil
}

func (s *Store) readEvents(ctx context.Context, traceID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, from_index, remove_count, insert_count, priority, size, cancel
		FROM events
		WHERE trace_id = ?
		ORDER BY seq ASC
	`, traceID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var kind string
		var size float64
		var cancel int
		if err := rows.Scan(&ev.Seq, &kind, &ev.From, &ev.Remove, &ev.Insert, &ev.Priority, &size, &cancel); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		ev.Size = interval.Size(size)
		ev.Cancel = cancel != 0
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	for i := range events {
		updates, err := s.readUpdates(ctx, traceID, events[i].Seq)
		if err != nil {
			return nil, err
		}
		events[i].Updates = updates
	}
	return events, nil
}

func (s *Store) readUpdates(ctx context.Context, traceID string, seq int64) ([]engine.UpdateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT render_index, old_count, new_count, mode
		FROM updates
		WHERE trace_id = ? AND event_seq = ?
		ORDER BY ord ASC
	`, traceID, seq)
	if err != nil {
		return nil, fmt.Errorf("query updates: %w", err)
	}
	defer rows.Close()

	var updates []engine.UpdateRecord
	for rows.Next() {
		var u engine.UpdateRecord
		var mode string
		if err := rows.Scan(&u.RenderIndex, &u.OldRenderCount, &u.NewRenderCount, &mode); err != nil {
			return nil, fmt.Errorf("scan update: %w", err)
		}
		u.Mode = parseUpdateMode(mode)
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate updates: %w", err)
	}
	return updates, nil
}

// ListTraces returns a summary of every stored trace, newest first.
func (s *Store) ListTraces(ctx context.Context) ([]TraceInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.label, t.initial_count, t.created_at, COUNT(e.seq)
		FROM traces t
		LEFT JOIN events e ON e.trace_id = t.id
		GROUP BY t.id
		ORDER BY t.created_at DESC, t.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	infos := []TraceInfo{}
	for rows.Next() {
		var info TraceInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Label, &info.InitialCount, &created, &info.EventCount); err != nil {
			return nil, fmt.Errorf("scan trace info: %w", err)
		}
		info.CreatedAt = parseTimestamp(created)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}
	return infos, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.999Z", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseUpdateMode(s string) engine.UpdateMode {
	switch s {
	case "replace":
		return engine.UpdateReplace
	case "rebuild":
		return engine.UpdateRebuild
	case "unbind":
		return engine.UpdateUnbind
	}
	return 0
}
