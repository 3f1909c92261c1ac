package interval

// Clock is a cancellable, restartable 0→1 progress source with a
// completion callback. The engine treats clocks as injected
// collaborators bound to the host's frame scheduler; this package only
// tracks how many intervals share one.
type Clock interface {
	// Start begins (or restarts) the animation. done is invoked exactly
	// once when progress reaches 1, unless Stop is called first.
	Start(done func())

	// Stop cancels the animation. The completion callback is not invoked.
	Stop()

	// Progress reports the current position in [0, 1].
	Progress() float64
}

// ClockBinding is a shared, reference-counted handle on a Clock.
// A batch of intervals started together may share one binding; the clock
// is stopped when the last referencing interval releases it.
type ClockBinding struct {
	clock Clock
	refs  int
}

// NewClockBinding wraps a clock with an initial reference count of zero.
// Call Acquire before attaching it to an interval.
func NewClockBinding(c Clock) *ClockBinding {
	return &ClockBinding{clock: c}
}

// Clock returns the underlying clock.
func (b *ClockBinding) Clock() Clock {
	return b.clock
}

// Refs returns the current reference count.
func (b *ClockBinding) Refs() int {
	return b.refs
}

// Acquire adds a reference and returns the binding for chaining.
func (b *ClockBinding) Acquire() *ClockBinding {
	b.refs++
	return b
}

// Release drops a reference. When the last reference is released the
// clock is stopped. Reports whether this release was the last one.
func (b *ClockBinding) Release() bool {
	if b.refs <= 0 {
		return false
	}
	b.refs--
	if b.refs == 0 {
		b.clock.Stop()
		return true
	}
	return false
}
