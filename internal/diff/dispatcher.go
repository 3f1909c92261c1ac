package diff

import (
	"log/slog"
	"sync"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// Dispatcher computes diffs and applies the resulting ops to an engine
// inside one batch, so a whole data swap coordinates once.
//
// Small diffs run inline on the caller's (host loop) goroutine. Diffs
// at or above the async threshold run on a worker goroutine and hand
// their result back through the poster, which must execute the closure
// on the host loop. A generation counter guards the handoff: if another
// dispatch started meanwhile, the stale result is silently discarded.
type Dispatcher struct {
	engine   *engine.Engine
	log      *slog.Logger
	post     func(func())
	minAsync int
	priority int

	mu  sync.Mutex
	gen uint64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAsyncThreshold sets the sequence length at which diffs move off
// the host loop. Zero disables async computation entirely.
func WithAsyncThreshold(n int) DispatcherOption {
	return func(d *Dispatcher) { d.minAsync = n }
}

// WithPoster supplies the host-loop executor for async results.
// Required when async computation is enabled.
func WithPoster(post func(func())) DispatcherOption {
	return func(d *Dispatcher) { d.post = post }
}

// WithPriority sets the coordination priority applied to dispatched
// notifications.
func WithPriority(p int) DispatcherOption {
	return func(d *Dispatcher) { d.priority = p }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher creates a dispatcher applying diffs to e.
func NewDispatcher(e *engine.Engine, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{engine: e}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// Dispatch diffs the old and new sequence versions and applies the ops.
// off builds the removed/changed content while it animates out.
//
// Returns the generation assigned to this dispatch. Any previously
// dispatched computation that has not applied yet is superseded.
func (d *Dispatcher) Dispatch(oldLen, newLen int, c Comparer, off interval.Builder) uint64 {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	long := max(oldLen, newLen)
	if d.minAsync <= 0 || d.post == nil || long < d.minAsync {
		res := Compute(oldLen, newLen, c)
		d.apply(gen, res, off)
		return gen
	}

	go func() {
		res := Compute(oldLen, newLen, c)
		d.post(func() {
			d.apply(gen, res, off)
		})
	}()
	return gen
}

// apply feeds one computed result into the engine unless it was
// superseded.
func (d *Dispatcher) apply(gen uint64, res Result, off interval.Builder) {
	d.mu.Lock()
	stale := gen != d.gen
	d.mu.Unlock()
	if stale {
		d.log.Debug("discarding superseded diff", "generation", gen)
		return
	}
	if len(res.Ops) == 0 {
		return
	}
	d.log.Debug("applying diff", "generation", gen, "ops", len(res.Ops))
	d.engine.Batch(func() {
		for _, op := range res.Ops {
			var err error
			switch op.Kind {
			case OpRange:
				err = d.engine.NotifyRange(op.From, op.Remove, op.Insert, d.priority, off)
			case OpChange:
				err = d.engine.NotifyChange(op.From, op.Count, d.priority, off)
			}
			if err != nil {
				d.log.Error("diff op rejected", "op", op.String(), "error", err)
				return
			}
		}
	})
}
