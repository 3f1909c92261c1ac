package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// defaultMoveSize is the extent a moved or picked item reports when the
// scenario does not give one.
const defaultMoveSize = 1.0

// Harness executes one scenario against a fresh engine.
type Harness struct {
	engine *engine.Engine
	clocks *engine.ManualClockFactory
	result *Result

	reorder *engine.ReorderHandle
	stepNum int
}

// Run executes a scenario and returns its timeline result.
//
// Each scenario runs against a fresh engine driven by a manual clock
// factory and fixed measure tokens, so the timeline is deterministic.
// Execution stops at the first step the engine rejects; the error names
// the step.
func Run(s *Scenario) (*Result, error) {
	return RunInspect(s, nil)
}

// RunInspect executes like Run but calls inspect with the live engine
// after the last step, before disposal. Tests use it to layer invariant
// assertions on top of the timeline.
func RunInspect(s *Scenario, inspect func(*engine.Engine)) (*Result, error) {
	clocks := engine.NewManualClockFactory()
	res := &Result{Scenario: s.Name}

	e := engine.New(s.Initial,
		engine.WithClockFactory(clocks.New),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithTokenGenerator(engine.NewFixedGenerator("scn")),
		engine.WithItemBuilder(func(i int) any { return fmt.Sprintf("item-%d", i) }),
		engine.WithUpdateListener(func(r engine.UpdateRecord) {
			res.Updates = append(res.Updates, r)
		}),
		engine.WithRebuildListener(func() { res.Rebuilds++ }),
	)
	defer e.Dispose()

	h := &Harness{engine: e, clocks: clocks, result: res}
	h.snapshot("initial", nil)
	for i := range s.Steps {
		st := &s.Steps[i]
		h.stepNum = i
		notes, err := h.execute(st)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, st.kind(), err)
		}
		h.snapshot(fmt.Sprintf("%02d %s", i, st.describe()), notes)
	}
	if inspect != nil {
		inspect(e)
	}
	return res, nil
}

// execute runs one step and returns any notes for its frame.
func (h *Harness) execute(st *Step) ([]string, error) {
	switch {
	case st.Notify != nil:
		n := st.Notify
		return nil, h.engine.NotifyRange(n.From, n.Remove, n.Insert, n.Priority, h.offBuilder())

	case st.Change != nil:
		c := st.Change
		return nil, h.engine.NotifyChange(c.From, c.Count, c.Priority, h.offBuilder())

	case st.Move != nil:
		m := st.Move
		size := m.Size
		if size == 0 {
			size = defaultMoveSize
		}
		return nil, h.engine.NotifyMove(m.From, m.To, m.Priority, size, h.offBuilder())

	case st.Reorder != nil:
		return h.executeReorder(st.Reorder)

	case st.Batch != nil:
		var firstErr error
		h.engine.Batch(func() {
			for i := range st.Batch {
				if _, err := h.execute(&st.Batch[i]); err != nil {
					firstErr = fmt.Errorf("batch[%d] (%s): %w", i, st.Batch[i].kind(), err)
					return
				}
			}
		})
		return nil, firstErr

	case st.Settle:
		h.clocks.Settle()
		return nil, nil

	case st.Translate != nil:
		return h.executeTranslate(st.Translate), nil
	}
	return nil, fmt.Errorf("empty step")
}

func (h *Harness) executeReorder(r *ReorderStep) ([]string, error) {
	switch {
	case r.Start != nil:
		size := r.Start.Size
		if size == 0 {
			size = defaultMoveSize
		}
		handle, err := h.engine.NotifyStartReorder(r.Start.Index, size)
		if err != nil {
			return nil, err
		}
		h.reorder = handle
		if idx, ok := handle.RenderIndex(); ok {
			return []string{fmt.Sprintf("picked render=%d", idx)}, nil
		}
		return nil, nil

	case r.Target != nil:
		return nil, h.engine.NotifyUpdateReorderTarget(*r.Target)

	default:
		cancel := r.Stop != nil && r.Stop.Cancel
		resolved, err := h.engine.NotifyStopReorder(cancel)
		if err != nil {
			return nil, err
		}
		h.reorder = nil
		return []string{fmt.Sprintf("resolved index=%d", resolved)}, nil
	}
}

func (h *Harness) executeTranslate(tr *TranslateStep) []string {
	if tr.Render != nil {
		if item, ok := h.engine.RenderIndexToItemIndex(*tr.Render); ok {
			return []string{fmt.Sprintf("render %d -> item %d", *tr.Render, item)}
		}
		return []string{fmt.Sprintf("render %d -> no item", *tr.Render)}
	}
	if render, ok := h.engine.ItemIndexToRenderIndex(*tr.Item); ok {
		return []string{fmt.Sprintf("item %d -> render %d", *tr.Item, render)}
	}
	return []string{fmt.Sprintf("item %d -> no render", *tr.Item)}
}

// offBuilder labels outgoing content with the step that removed it, so
// golden timelines and BuildSlot answers show which step a dismissal
// run came from.
func (h *Harness) offBuilder() interval.Builder {
	step := h.stepNum
	return func(i int) any { return fmt.Sprintf("out%d-%d", step, i) }
}

func (h *Harness) snapshot(label string, notes []string) {
	f := Frame{
		Label:       label,
		ItemCount:   h.engine.ItemCount(),
		RenderCount: h.engine.RenderCount(),
		Clocks:      h.clocks.Running(),
		Notes:       notes,
	}
	for _, iv := range h.engine.Intervals() {
		f.Intervals = append(f.Intervals, iv.String())
	}
	h.result.Frames = append(h.result.Frames, f)
}
