package engine

import (
	"log/slog"

	"github.com/roach88/glide/internal/interval"
)

// Engine is the interval-tracking engine for one renderable region.
//
// All mutation runs on the host loop: external entry points (the
// Notify* family) and completion events (clocks, measurements) execute
// to completion before any other mutation occurs. See the package
// documentation for the processing flow.
type Engine struct {
	list     *interval.List
	clocks   ClockFactory
	measurer Measurer

	// itemBuilder produces live content for measurement of incoming
	// items. Optional; measurement requests carry a nil builder without
	// it.
	itemBuilder interval.Builder

	log          *slog.Logger
	coordination bool
	debugChecks  bool
	tokens       TokenGenerator
	onUpdate     UpdateListener
	onRebuild    func()

	queue      *eventQueue
	draining   bool
	batchDepth int
	rebuild    bool

	reorder *reorderSession
	move    *moveSession

	pendingMeasure map[string]*measurePending
	disposed       bool
}

type measurePending struct {
	iv      *interval.Interval
	purpose MeasurePurpose
	cancel  func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithClockFactory injects the animation clock source. Defaults to
// zero-duration clocks that complete as soon as they start, which
// degenerates every transition to an instant jump.
func WithClockFactory(f ClockFactory) Option {
	return func(e *Engine) { e.clocks = f }
}

// WithMeasurer injects the external measurement collaborator. Defaults
// to a StaticMeasurer reporting one extent unit per item.
func WithMeasurer(m Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithItemBuilder supplies the builder for live item content, used for
// measurement of incoming items and for BuildSlot.
func WithItemBuilder(b interval.Builder) Option {
	return func(e *Engine) { e.itemBuilder = b }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithCoordination enables or disables priority admission. When
// disabled, all ready intervals start immediately and no visual
// ordering is enforced. Enabled by default.
func WithCoordination(enabled bool) Option {
	return func(e *Engine) { e.coordination = enabled }
}

// WithDebugChecks makes contract violations panic instead of only
// being returned, and makes Dispose report leaked clocks as errors.
func WithDebugChecks(enabled bool) Option {
	return func(e *Engine) { e.debugChecks = enabled }
}

// WithTokenGenerator injects the measurement token source. Defaults to
// UUIDv7 tokens; tests use a FixedGenerator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(e *Engine) { e.tokens = g }
}

// WithUpdateListener registers the renderer's update-record sink.
func WithUpdateListener(fn UpdateListener) Option {
	return func(e *Engine) { e.onUpdate = fn }
}

// WithRebuildListener registers the renderer's rebuild signal, fired
// once per drain whenever the render-space shape changed.
func WithRebuildListener(fn func()) Option {
	return func(e *Engine) { e.onRebuild = fn }
}

// New creates an engine over a settled sequence of initialCount items.
func New(initialCount int, opts ...Option) *Engine {
	e := &Engine{
		list:           interval.NewSettled(initialCount),
		coordination:   true,
		tokens:         UUIDv7Generator{},
		queue:          newEventQueue(),
		pendingMeasure: make(map[string]*measurePending),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.clocks == nil {
		e.clocks = func() interval.Clock { return &immediateClock{} }
	}
	if e.measurer == nil {
		m := NewStaticMeasurer(1)
		m.Bind(e)
		e.measurer = m
	}
	return e
}

// ItemCount returns the current item-space length. This always equals
// the caller's underlying sequence length.
func (e *Engine) ItemCount() int {
	return e.list.TotalItemCount()
}

// RenderCount returns the current number of render-space slots.
func (e *Engine) RenderCount() int {
	return e.list.TotalRenderCount()
}

// Intervals returns a snapshot of the current decomposition, front to
// back. For tests, the harness, and diagnostics.
func (e *Engine) Intervals() []*interval.Interval {
	out := make([]*interval.Interval, 0, e.list.Len())
	for x := e.list.Front(); x != nil; x = x.Next() {
		out = append(out, x)
	}
	return out
}

// Quiesced reports whether every transition has settled: no clocks
// running, no measurement in flight, nothing waiting for coordination.
func (e *Engine) Quiesced() bool {
	if len(e.pendingMeasure) > 0 || e.queue.len() > 0 {
		return false
	}
	for x := e.list.Front(); x != nil; x = x.Next() {
		if x.State != interval.Normal {
			return false
		}
	}
	return true
}

// NotifyRange applies one structural edit: removeCount items vanish at
// fromItemIndex and insertCount items appear in their place. The caller
// has already applied the edit to its data; off builds the removed
// content while it animates out.
func (e *Engine) NotifyRange(fromItemIndex, removeCount, insertCount, priority int, off interval.Builder) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if removeCount < 0 || insertCount < 0 || fromItemIndex < 0 ||
		fromItemIndex+removeCount > e.list.TotalItemCount() {
		return e.contract(newOutOfBounds(fromItemIndex, removeCount, e.list.TotalItemCount()))
	}
	if removeCount == 0 && insertCount == 0 {
		return nil
	}
	e.finishMoves()
	e.log.Debug("range notification",
		"from", fromItemIndex,
		"remove", removeCount,
		"insert", insertCount,
		"priority", priority,
	)
	e.distributeRange(fromItemIndex, removeCount, insertCount, priority, off)
	e.afterMutation()
	return nil
}

// NotifyChange marks count items at fromItemIndex as replaced
// one-for-one. The span keeps its width; old content (built by off)
// fades out while new content fades in over the same slots.
func (e *Engine) NotifyChange(fromItemIndex, count, priority int, off interval.Builder) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if count < 0 || fromItemIndex < 0 || fromItemIndex+count > e.list.TotalItemCount() {
		return e.contract(newOutOfBounds(fromItemIndex, count, e.list.TotalItemCount()))
	}
	if count == 0 {
		return nil
	}
	e.finishMoves()
	e.log.Debug("change notification", "from", fromItemIndex, "count", count, "priority", priority)
	e.distributeChange(fromItemIndex, count, priority, off)
	e.afterMutation()
	return nil
}

// Batch runs fn with coordination deferred: a sequence of range edits
// applied inside one batch produces exactly one coordination pass and
// no intermediate clock starts.
func (e *Engine) Batch(fn func()) {
	e.batchDepth++
	defer func() {
		e.batchDepth--
		if e.batchDepth == 0 {
			e.afterMutation()
		}
	}()
	fn()
}

// ResolveMeasure delivers an asynchronous measurement result. Must be
// called from the host loop. A result whose token is no longer pending
// is silently discarded: the interval was invalidated by an intervening
// notification, an expected race rather than a fault.
func (e *Engine) ResolveMeasure(token string, size interval.Size) {
	if e.disposed {
		return
	}
	e.queue.enqueue(event{kind: eventMeasureDone, token: token, size: size})
	e.pump()
}

// Dispose tears the engine down, cancelling measurements and releasing
// clocks. Disposing while a clock is still running indicates missing
// cleanup by the caller; it is logged, and reported as a ClockLeak
// error when debug checks are enabled.
func (e *Engine) Dispose() error {
	if e.disposed {
		return nil
	}
	leaked := 0
	for x := e.list.Front(); x != nil; x = x.Next() {
		if x.State.Animated() && x.Clock != nil {
			leaked++
		}
	}
	for tok, p := range e.pendingMeasure {
		if p.cancel != nil {
			p.cancel()
		}
		delete(e.pendingMeasure, tok)
	}
	for e.list.Front() != nil {
		e.list.Remove(e.list.Front())
	}
	e.disposed = true
	if leaked > 0 {
		e.log.Error("disposed with active clocks", "count", leaked)
		if e.debugChecks {
			return &ContractError{
				Code:    ErrCodeClockLeak,
				Message: "list disposed while clocks were still active",
				Count:   leaked,
			}
		}
	}
	e.log.Info("engine disposed")
	return nil
}

// checkMutable rejects structural notifications when the engine is
// disposed or a reorder is in progress.
func (e *Engine) checkMutable() error {
	if e.disposed {
		return e.contract(&ContractError{Code: ErrCodeDisposed, Message: "engine used after dispose"})
	}
	if e.reorder != nil {
		return e.contract(&ContractError{
			Code:    ErrCodeReorderActive,
			Message: "structural notification during active reorder; cancel the reorder first",
		})
	}
	return nil
}

// contract logs a violation and, with debug checks enabled, aborts.
func (e *Engine) contract(err *ContractError) error {
	e.log.Error("contract violation", "code", err.Code, "error", err)
	if e.debugChecks {
		panic(err)
	}
	return err
}

// afterMutation runs the coordination pass and drains follow-on events
// to a fixed point. No-op inside a batch or when already draining.
func (e *Engine) afterMutation() {
	if e.batchDepth > 0 || e.draining || e.disposed {
		return
	}
	e.draining = true
	e.coordinate()
	e.optimize()
	e.drain()
	e.draining = false
	e.flushRebuild()
}

// pump drains pending events unless a drain is already running higher
// up the stack, in which case that drain picks them up.
func (e *Engine) pump() {
	if e.batchDepth > 0 || e.draining || e.disposed {
		return
	}
	e.draining = true
	e.drain()
	e.draining = false
	e.flushRebuild()
}

func (e *Engine) drain() {
	for {
		ev, ok := e.queue.tryDequeue()
		if !ok {
			return
		}
		switch ev.kind {
		case eventClockDone:
			e.handleClockDone(ev.binding)
		case eventMeasureDone:
			e.handleMeasureDone(ev.token, ev.size)
		}
	}
}

// emitUpdate delivers one update record and arms the rebuild signal.
func (e *Engine) emitUpdate(r UpdateRecord) {
	e.log.Debug("update record",
		"render_index", r.RenderIndex,
		"old", r.OldRenderCount,
		"new", r.NewRenderCount,
		"mode", r.Mode.String(),
	)
	e.rebuild = true
	if e.onUpdate != nil {
		e.onUpdate(r)
	}
}

// flushRebuild fires the coalesced rebuild signal at most once per
// drain.
func (e *Engine) flushRebuild() {
	if !e.rebuild {
		return
	}
	e.rebuild = false
	if e.onRebuild != nil {
		e.onRebuild()
	}
}

// newBinding wraps a fresh clock from the factory.
func (e *Engine) newBinding() *interval.ClockBinding {
	return interval.NewClockBinding(e.clocks())
}

// startBinding begins the clock; completion is queued and drained.
func (e *Engine) startBinding(b *interval.ClockBinding) {
	b.Clock().Start(func() {
		e.queue.enqueue(event{kind: eventClockDone, binding: b})
		e.pump()
	})
}

// immediateClock completes synchronously on Start. The default when no
// clock factory is injected: every transition jumps to its end state.
type immediateClock struct{ stopped bool }

func (c *immediateClock) Start(done func()) {
	c.stopped = false
	done()
}

func (c *immediateClock) Stop()             { c.stopped = true }
func (c *immediateClock) Progress() float64 { return 1 }
