package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/glide/internal/engine"
)

// ReplayResult is the outcome of feeding a trace into a fresh engine.
type ReplayResult struct {
	Engine *engine.Engine
	Clocks *engine.ManualClockFactory

	// Updates are the update records the replayed engine produced, per
	// event, parallel to the trace's events.
	Updates [][]engine.UpdateRecord

	// Divergences lists human-readable mismatches between recorded and
	// replayed update records. Empty for a faithful reproduction.
	Divergences []string
}

// Replay loads a trace and re-feeds it into a fresh engine under a
// hand-driven clock. Settle markers recorded in the trace settle the
// clocks at the same points the original session did, so the replayed
// timeline matches the recorded one.
//
// The caller owns the returned engine and should dispose it.
func Replay(ctx context.Context, s *Store, traceID string, log *slog.Logger) (*ReplayResult, error) {
	tr, err := s.ReadTrace(ctx, traceID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	clocks := engine.NewManualClockFactory()
	res := &ReplayResult{Clocks: clocks}
	var current []engine.UpdateRecord
	e := engine.New(tr.InitialCount,
		engine.WithClockFactory(clocks.New),
		engine.WithTokenGenerator(engine.NewFixedGenerator("replay")),
		engine.WithLogger(log),
		engine.WithUpdateListener(func(u engine.UpdateRecord) {
			current = append(current, u)
		}),
	)
	res.Engine = e

	for _, ev := range tr.Events {
		if ctx.Err() != nil {
			return res, fmt.Errorf("replay: %w", ctx.Err())
		}
		current = nil
		if err := applyEvent(e, clocks, ev); err != nil {
			return res, fmt.Errorf("replay event %d (%s): %w", ev.Seq, ev.Kind, err)
		}
		res.Updates = append(res.Updates, current)
		res.Divergences = append(res.Divergences, diffUpdates(ev, current)...)
	}
	return res, nil
}

func applyEvent(e *engine.Engine, clocks *engine.ManualClockFactory, ev Event) error {
	switch ev.Kind {
	case EventRange:
		return e.NotifyRange(ev.From, ev.Remove, ev.Insert, ev.Priority, nil)
	case EventChange:
		return e.NotifyChange(ev.From, ev.Remove, ev.Priority, nil)
	case EventMove:
		return e.NotifyMove(ev.From, ev.Insert, ev.Priority, ev.Size, nil)
	case EventReorderStart:
		_, err := e.NotifyStartReorder(ev.From, ev.Size)
		return err
	case EventReorderTarget:
		return e.NotifyUpdateReorderTarget(ev.From)
	case EventReorderStop:
		_, err := e.NotifyStopReorder(ev.Cancel)
		return err
	case EventSettle:
		clocks.Settle()
		return nil
	}
	return fmt.Errorf("unknown event kind %q", ev.Kind)
}

func diffUpdates(ev Event, got []engine.UpdateRecord) []string {
	var out []string
	if len(ev.Updates) != len(got) {
		out = append(out, fmt.Sprintf(
			"event %d (%s): recorded %d update records, replay produced %d",
			ev.Seq, ev.Kind, len(ev.Updates), len(got)))
		return out
	}
	for i, want := range ev.Updates {
		if got[i] != want {
			out = append(out, fmt.Sprintf(
				"event %d (%s) update %d: recorded %+v, replay produced %+v",
				ev.Seq, ev.Kind, i, want, got[i]))
		}
	}
	return out
}
