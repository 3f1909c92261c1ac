package interval

import "fmt"

// Size is an opaque extent measurement, received from the renderer and
// handed back to it. The engine never interprets it beyond linear
// apportioning on splits.
type Size = float64

// Interval is one contiguous segment of the rendered sequence. The same
// struct serves every State; capability is decided by pattern matching
// on the state, so an unsupported operation is simply never requested
// (see State predicates).
//
// Counts:
//   - RenderCount: render-space slots currently occupied (≥0).
//   - ItemCount: item-space positions currently represented (≥0). The
//     sum over a list always equals the caller's sequence length.
//   - OffCount: off-list data positions covered by Build (removed or
//     replaced content still displayed during a transition).
type Interval struct {
	State       State
	RenderCount int
	ItemCount   int
	OffCount    int

	// Priority is supplied by the triggering notification and drives
	// coordination ordering.
	Priority int

	// Clock is the shared clock binding, nil when no clock is attached.
	Clock *ClockBinding

	// Build renders off-list content while OffCount > 0.
	Build Builder

	// AsChange marks an Inserting interval that took the change path.
	AsChange bool

	// FromSize is the last settled extent of this interval's gap.
	// ToSize is the measured target extent; HasTarget reports whether
	// measurement has completed. MeasureToken correlates an in-flight
	// measurement request ("" when none is pending).
	FromSize     Size
	ToSize       Size
	HasTarget    bool
	MeasureToken string

	prev, next *Interval
	list       *List

	// Cached prefix sums, valid only while offValid is set and the list's
	// dirty pointer has not passed this interval.
	renderOff, itemOff int
	offValid           bool
}

// Prev returns the preceding interval in the list, or nil.
func (iv *Interval) Prev() *Interval { return iv.prev }

// Next returns the following interval in the list, or nil.
func (iv *Interval) Next() *Interval { return iv.next }

// List returns the owning list, or nil once disposed.
func (iv *Interval) List() *List { return iv.list }

// Disposed reports whether the interval has been removed from its list.
func (iv *Interval) Disposed() bool { return iv.State == Disposed }

// Spawned reports whether this is a resize interval holding incoming
// items with no visual gap yet.
func (iv *Interval) Spawned() bool {
	return iv.State == ReadyToResize && iv.RenderCount == 0
}

// Measuring reports whether a measurement request is in flight.
func (iv *Interval) Measuring() bool { return iv.MeasureToken != "" }

// AttachClock acquires a reference on the binding and stores it.
// Any previously held binding is released first.
func (iv *Interval) AttachClock(b *ClockBinding) {
	if iv.Clock != nil {
		iv.Clock.Release()
	}
	iv.Clock = b.Acquire()
}

// DetachClock releases and clears the clock binding, if any.
func (iv *Interval) DetachClock() {
	if iv.Clock == nil {
		return
	}
	iv.Clock.Release()
	iv.Clock = nil
}

// CurrentSize reports the gap extent right now: the clock-interpolated
// position between FromSize and ToSize while resizing, FromSize
// otherwise. Used when a split must apportion an interrupted
// measurement.
func (iv *Interval) CurrentSize() Size {
	if iv.HasTarget && iv.Clock != nil && iv.State.Animated() {
		p := iv.Clock.Clock().Progress()
		return iv.FromSize + (iv.ToSize-iv.FromSize)*p
	}
	if iv.HasTarget && iv.State != ReadyToResize {
		return iv.ToSize
	}
	return iv.FromSize
}

func (iv *Interval) String() string {
	s := fmt.Sprintf("%s(render=%d,item=%d", iv.State, iv.RenderCount, iv.ItemCount)
	if iv.OffCount > 0 {
		s += fmt.Sprintf(",off=%d", iv.OffCount)
	}
	if iv.Priority != 0 {
		s += fmt.Sprintf(",prio=%d", iv.Priority)
	}
	return s + ")"
}
