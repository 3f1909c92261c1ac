package engine

import (
	"time"

	"github.com/roach88/glide/internal/interval"
)

// ClockFactory produces a fresh animation clock bound to the host's
// frame scheduler. Injected so tests and the scenario harness can drive
// progress by hand.
type ClockFactory func() interval.Clock

// ManualClock is a hand-driven clock for tests and simulations.
// Progress only moves when told to; Complete fires the completion
// callback exactly once.
//
// Not safe for concurrent use: like every engine callback source it
// must be driven from the host loop.
type ManualClock struct {
	running  bool
	progress float64
	done     func()
}

// Start begins the animation at progress 0.
func (c *ManualClock) Start(done func()) {
	c.running = true
	c.progress = 0
	c.done = done
}

// Stop cancels the animation without firing the completion callback.
func (c *ManualClock) Stop() {
	c.running = false
	c.done = nil
}

// Progress reports the current position in [0, 1].
func (c *ManualClock) Progress() float64 {
	return c.progress
}

// Running reports whether the clock has been started and not yet
// completed or stopped.
func (c *ManualClock) Running() bool {
	return c.running
}

// Advance moves progress forward, clamped to 1. It does not fire the
// completion callback; call Complete for that.
func (c *ManualClock) Advance(p float64) {
	c.progress += p
	if c.progress > 1 {
		c.progress = 1
	}
}

// Complete drives progress to 1 and fires the completion callback.
func (c *ManualClock) Complete() {
	if !c.running {
		return
	}
	c.running = false
	c.progress = 1
	d := c.done
	c.done = nil
	if d != nil {
		d()
	}
}

// ManualClockFactory records every clock it hands out so a test can run
// the engine to quiescence.
type ManualClockFactory struct {
	clocks []*ManualClock
}

// NewManualClockFactory returns an empty factory.
func NewManualClockFactory() *ManualClockFactory {
	return &ManualClockFactory{}
}

// New creates and records a manual clock. Pass it as the engine's
// ClockFactory.
func (f *ManualClockFactory) New() interval.Clock {
	c := &ManualClock{}
	f.clocks = append(f.clocks, c)
	return c
}

// Running returns the number of clocks currently running.
func (f *ManualClockFactory) Running() int {
	n := 0
	for _, c := range f.clocks {
		if c.running {
			n++
		}
	}
	return n
}

// Settle completes running clocks in creation order until none remain.
// Completing one clock may start others; the loop runs to fixed point.
func (f *ManualClockFactory) Settle() {
	for {
		fired := false
		for _, c := range f.clocks {
			if c.running {
				c.Complete()
				fired = true
				break
			}
		}
		if !fired {
			return
		}
	}
}

// FrameClock is a wall-time clock for interactive hosts. Completion is
// delivered through a caller-supplied poster, which must hand the
// callback back to the host loop (the engine is single-threaded).
type FrameClock struct {
	duration time.Duration
	post     func(func())
	started  time.Time
	timer    *time.Timer
	running  bool
}

// NewFrameClock creates a clock that runs for d and posts its
// completion through post.
func NewFrameClock(d time.Duration, post func(func())) *FrameClock {
	return &FrameClock{duration: d, post: post}
}

// Start begins the animation.
func (c *FrameClock) Start(done func()) {
	c.Stop()
	c.started = time.Now()
	c.running = true
	c.timer = time.AfterFunc(c.duration, func() {
		c.post(func() {
			if !c.running {
				return
			}
			c.running = false
			done()
		})
	})
}

// Stop cancels the animation.
func (c *FrameClock) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.running = false
}

// Progress reports elapsed time over duration, clamped to [0, 1].
func (c *FrameClock) Progress() float64 {
	if !c.running {
		return 1
	}
	p := float64(time.Since(c.started)) / float64(c.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
