package store

import (
	"context"
	"fmt"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// Recorder mirrors the engine's notification surface, persisting each
// call before forwarding it. Attach it between the application and the
// engine; the recorded trace replays the session deterministically.
//
// Off-list builders are not persisted. Replay runs with nil builders
// and a static measurer, which does not change interval shapes, only
// the content the renderer would have drawn.
type Recorder struct {
	store   *Store
	engine  *engine.Engine
	traceID string
	seq     int64

	// captured collects update records between Notify calls via the
	// engine's update listener.
	captured []engine.UpdateRecord
}

// NewRecorder begins a trace and wraps e. Register CaptureUpdate as
// (or from) the engine's update listener so records land in the trace.
func NewRecorder(ctx context.Context, s *Store, e *engine.Engine, label string) (*Recorder, error) {
	id, err := s.BeginTrace(ctx, label, e.ItemCount())
	if err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	return &Recorder{store: s, engine: e, traceID: id}, nil
}

// TraceID returns the id of the trace being recorded.
func (r *Recorder) TraceID() string {
	return r.traceID
}

// CaptureUpdate buffers one update record for the event being recorded.
func (r *Recorder) CaptureUpdate(u engine.UpdateRecord) {
	r.captured = append(r.captured, u)
}

func (r *Recorder) commit(ctx context.Context, ev Event, callErr error) error {
	if callErr != nil {
		// Contract violations never mutate the engine; drop any stale
		// buffer and keep the trace clean.
		r.captured = nil
		return callErr
	}
	r.seq++
	ev.Seq = r.seq
	ev.Updates = r.captured
	r.captured = nil
	if err := r.store.WriteEvent(ctx, r.traceID, ev); err != nil {
		return fmt.Errorf("record %s event: %w", ev.Kind, err)
	}
	return nil
}

// NotifyRange records and forwards a structural edit.
func (r *Recorder) NotifyRange(ctx context.Context, from, removeCount, insertCount, priority int, off interval.Builder) error {
	err := r.engine.NotifyRange(from, removeCount, insertCount, priority, off)
	return r.commit(ctx, Event{
		Kind:     EventRange,
		From:     from,
		Remove:   removeCount,
		Insert:   insertCount,
		Priority: priority,
	}, err)
}

// NotifyChange records and forwards an in-place content change.
func (r *Recorder) NotifyChange(ctx context.Context, from, count, priority int, off interval.Builder) error {
	err := r.engine.NotifyChange(from, count, priority, off)
	return r.commit(ctx, Event{
		Kind:     EventChange,
		From:     from,
		Remove:   count,
		Priority: priority,
	}, err)
}

// NotifyMove records and forwards a programmatic move.
func (r *Recorder) NotifyMove(ctx context.Context, from, to, priority int, size interval.Size, off interval.Builder) error {
	err := r.engine.NotifyMove(from, to, priority, size, off)
	return r.commit(ctx, Event{
		Kind:     EventMove,
		From:     from,
		Insert:   to,
		Priority: priority,
		Size:     size,
	}, err)
}

// NotifyStartReorder records and forwards a reorder start.
func (r *Recorder) NotifyStartReorder(ctx context.Context, renderIndex int, size interval.Size) (*engine.ReorderHandle, error) {
	h, err := r.engine.NotifyStartReorder(renderIndex, size)
	if cerr := r.commit(ctx, Event{Kind: EventReorderStart, From: renderIndex, Size: size}, err); cerr != nil {
		return nil, cerr
	}
	return h, nil
}

// NotifyUpdateReorderTarget records and forwards a drop-target change.
func (r *Recorder) NotifyUpdateReorderTarget(ctx context.Context, renderIndex int) error {
	err := r.engine.NotifyUpdateReorderTarget(renderIndex)
	return r.commit(ctx, Event{Kind: EventReorderTarget, From: renderIndex}, err)
}

// NotifyStopReorder records and forwards the end of a reorder.
func (r *Recorder) NotifyStopReorder(ctx context.Context, cancel bool) (int, error) {
	idx, err := r.engine.NotifyStopReorder(cancel)
	if cerr := r.commit(ctx, Event{Kind: EventReorderStop, Cancel: cancel}, err); cerr != nil {
		return 0, cerr
	}
	return idx, nil
}

// MarkSettle records that the session ran its animations to quiescence
// here. Call it after the host finished the pending transitions; replay
// settles its clocks at the same point.
func (r *Recorder) MarkSettle(ctx context.Context) error {
	return r.commit(ctx, Event{Kind: EventSettle}, nil)
}
