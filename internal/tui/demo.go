// Package tui is an interactive terminal demo of the interval engine.
//
// It drives a real engine with wall-time frame clocks and renders the
// render space to a tcell screen: one row per settled slot, shaded rows
// for animating gaps. Every keyboard edit goes through the same
// notification surface a production list adapter would use, so the demo
// doubles as an end-to-end check of the renderer boundary.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/glide/internal/diff"
	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

const defaultFrame = 250 * time.Millisecond

// Demo owns the demo's screen, engine and item data. All methods run on
// the event loop goroutine.
type Demo struct {
	screen tcell.Screen
	log    *slog.Logger
	frame  time.Duration

	engine *engine.Engine
	disp   *diff.Dispatcher

	items   []string
	nextID  int
	cursor  int
	reorder *engine.ReorderHandle
	picked  int

	post  chan func()
	dirty bool
}

// Option configures a Demo.
type Option func(*Demo)

// WithFrameDuration sets the animation length.
func WithFrameDuration(d time.Duration) Option {
	return func(demo *Demo) { demo.frame = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(demo *Demo) { demo.log = l }
}

// New creates a demo over the given screen with n initial items. The
// screen is not initialized; Run does that.
func New(screen tcell.Screen, n int, opts ...Option) *Demo {
	d := &Demo{
		screen: screen,
		frame:  defaultFrame,
		post:   make(chan func(), 64),
		picked: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	for i := 0; i < n; i++ {
		d.items = append(d.items, d.newLabel())
	}

	d.engine = engine.New(n,
		engine.WithClockFactory(func() interval.Clock {
			return engine.NewFrameClock(d.frame, func(fn func()) { d.post <- fn })
		}),
		engine.WithItemBuilder(func(i int) any {
			if i < 0 || i >= len(d.items) {
				return ""
			}
			return d.items[i]
		}),
		engine.WithLogger(d.log),
		engine.WithRebuildListener(func() { d.dirty = true }),
	)
	d.disp = diff.NewDispatcher(d.engine, diff.WithLogger(d.log))
	return d
}

// Engine exposes the demo's engine for inspection.
func (d *Demo) Engine() *engine.Engine { return d.engine }

// Items returns the current item data.
func (d *Demo) Items() []string { return d.items }

func (d *Demo) newLabel() string {
	d.nextID++
	return fmt.Sprintf("item %d", d.nextID)
}

// Run initializes the screen and processes events until quit.
func (d *Demo) Run() error {
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer d.screen.Fini()
	defer d.engine.Dispose()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	// Animations move continuously, so redraw on a short tick while
	// anything runs.
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	d.dirty = true
	for {
		select {
		case fn := <-d.post:
			fn()
			d.dirty = true
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if d.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if !d.engine.Quiesced() {
				d.dirty = true
			}
		}
		if d.dirty {
			d.dirty = false
			d.draw()
		}
	}
}

// flushPosted runs queued clock completions synchronously. The Run loop
// does this continuously; tests call it directly.
func (d *Demo) flushPosted() {
	for {
		select {
		case fn := <-d.post:
			fn()
		default:
			return
		}
	}
}

// handleEvent reacts to one tcell event. Reports whether to quit.
func (d *Demo) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		d.screen.Sync()
		d.dirty = true
	case *tcell.EventKey:
		return d.handleKey(ev)
	}
	return false
}

func (d *Demo) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if d.reorder != nil {
			d.stopReorder(true)
			return false
		}
		return true
	case tcell.KeyDown:
		d.moveCursor(1)
		return false
	case tcell.KeyUp:
		d.moveCursor(-1)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'a':
		d.appendItem()
	case 'i':
		d.insertAtCursor()
	case 'd':
		d.deleteAtCursor()
	case 'c':
		d.changeAtCursor()
	case 'm':
		d.moveCursorItem()
	case 's':
		d.shuffle()
	case ' ':
		if d.reorder == nil {
			d.startReorder()
		} else {
			d.stopReorder(false)
		}
	}
	return false
}

func (d *Demo) moveCursor(delta int) {
	d.cursor += delta
	if d.cursor < 0 {
		d.cursor = 0
	}
	if max := d.engine.RenderCount() - 1; d.cursor > max {
		d.cursor = max
	}
	if d.reorder != nil {
		if err := d.engine.NotifyUpdateReorderTarget(d.cursor); err != nil {
			d.log.Error("reorder target", "error", err)
		}
	}
	d.dirty = true
}

// cursorItem maps the cursor's render slot to an item index, falling
// back to the end of the sequence when the cursor sits on a gap.
func (d *Demo) cursorItem() int {
	if i, ok := d.engine.RenderIndexToItemIndex(d.cursor); ok {
		return i
	}
	return len(d.items)
}

func (d *Demo) appendItem() {
	if d.reorder != nil {
		return
	}
	at := len(d.items)
	d.items = append(d.items, d.newLabel())
	if err := d.engine.NotifyRange(at, 0, 1, 0, nil); err != nil {
		d.log.Error("append", "error", err)
	}
}

func (d *Demo) insertAtCursor() {
	if d.reorder != nil {
		return
	}
	at := d.cursorItem()
	d.items = append(d.items[:at], append([]string{d.newLabel()}, d.items[at:]...)...)
	if err := d.engine.NotifyRange(at, 0, 1, 0, nil); err != nil {
		d.log.Error("insert", "error", err)
	}
}

func (d *Demo) deleteAtCursor() {
	if d.reorder != nil || len(d.items) == 0 {
		return
	}
	at := d.cursorItem()
	if at >= len(d.items) {
		return
	}
	removed := d.items[at]
	d.items = append(d.items[:at], d.items[at+1:]...)
	err := d.engine.NotifyRange(at, 1, 0, 0, func(int) any { return removed })
	if err != nil {
		d.log.Error("delete", "error", err)
	}
}

func (d *Demo) changeAtCursor() {
	if d.reorder != nil || len(d.items) == 0 {
		return
	}
	at := d.cursorItem()
	if at >= len(d.items) {
		return
	}
	old := d.items[at]
	d.items[at] = d.newLabel() + " (changed)"
	err := d.engine.NotifyChange(at, 1, 0, func(int) any { return old })
	if err != nil {
		d.log.Error("change", "error", err)
	}
}

func (d *Demo) moveCursorItem() {
	if d.reorder != nil || len(d.items) < 2 {
		return
	}
	from := d.cursorItem()
	if from >= len(d.items) {
		return
	}
	to := from + 2
	if to >= len(d.items) {
		to = len(d.items) - 1
	}
	if to == from {
		return
	}
	moved := d.items[from]
	d.items = append(d.items[:from], d.items[from+1:]...)
	d.items = append(d.items[:to], append([]string{moved}, d.items[to:]...)...)
	err := d.engine.NotifyMove(from, to, 0, 1, func(int) any { return moved })
	if err != nil {
		d.log.Error("move", "error", err)
	}
}

// shuffle reverses the sequence and lets the diff dispatcher turn the
// swap into engine notifications.
func (d *Demo) shuffle() {
	if d.reorder != nil || len(d.items) < 2 {
		return
	}
	old := append([]string(nil), d.items...)
	for i, j := 0, len(d.items)-1; i < j; i, j = i+1, j-1 {
		d.items[i], d.items[j] = d.items[j], d.items[i]
	}
	d.disp.Dispatch(len(old), len(d.items), diff.ComparerFuncs{
		IdentityFn: func(oi, ni int) bool { return old[oi] == d.items[ni] },
	}, func(i int) any {
		if i < len(old) {
			return old[i]
		}
		return ""
	})
}

func (d *Demo) startReorder() {
	if d.engine.RenderCount() == 0 {
		return
	}
	picked, ok := d.engine.RenderIndexToItemIndex(d.cursor)
	if !ok {
		return
	}
	h, err := d.engine.NotifyStartReorder(d.cursor, 1)
	if err != nil {
		d.log.Error("reorder start", "error", err)
		return
	}
	d.reorder = h
	d.picked = picked
	d.dirty = true
}

func (d *Demo) stopReorder(cancel bool) {
	resolved, err := d.engine.NotifyStopReorder(cancel)
	d.reorder = nil
	if err != nil {
		d.log.Error("reorder stop", "error", err)
		d.picked = -1
		return
	}
	if !cancel && d.picked >= 0 {
		// Mirror the drop in the item data.
		to, ok := d.engine.RenderIndexToItemIndex(resolved)
		if ok && to != d.picked {
			moved := d.items[d.picked]
			d.items = append(d.items[:d.picked], d.items[d.picked+1:]...)
			d.items = append(d.items[:to], append([]string{moved}, d.items[to:]...)...)
		}
	}
	d.picked = -1
	d.cursor = resolved
	d.dirty = true
}
