package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// progressClock reports a fixed progress value.
type progressClock struct {
	p float64
}

func (c *progressClock) Start(done func()) {}
func (c *progressClock) Stop()             {}
func (c *progressClock) Progress() float64 { return c.p }

func TestClockBinding_Refcount(t *testing.T) {
	c := &countingClock{}
	b := NewClockBinding(c)
	require.Equal(t, 0, b.Refs())

	a := &Interval{State: Removing, RenderCount: 1}
	x := &Interval{State: Removing, RenderCount: 1}
	a.AttachClock(b)
	x.AttachClock(b)
	assert.Equal(t, 2, b.Refs())

	a.DetachClock()
	assert.Equal(t, 0, c.stops, "clock keeps running while holders remain")
	x.DetachClock()
	assert.Equal(t, 1, c.stops, "last detach stops the clock")
	assert.Nil(t, a.Clock)
	assert.Nil(t, x.Clock)
}

func TestAttachClock_ReplacesBinding(t *testing.T) {
	old := &countingClock{}
	iv := &Interval{State: Resizing, RenderCount: 1}
	iv.AttachClock(NewClockBinding(old))

	next := NewClockBinding(&countingClock{})
	iv.AttachClock(next)
	assert.Equal(t, 1, old.stops)
	assert.Same(t, next, iv.Clock)
	assert.Equal(t, 1, next.Refs())
}

func TestCurrentSize_Interpolates(t *testing.T) {
	iv := &Interval{
		State:     Resizing,
		FromSize:  2,
		ToSize:    6,
		HasTarget: true,
	}
	iv.AttachClock(NewClockBinding(&progressClock{p: 0.5}))
	assert.InDelta(t, 4.0, iv.CurrentSize(), 1e-9)
}

func TestCurrentSize_GapStates(t *testing.T) {
	opening := &Interval{State: ReorderOpening, FromSize: 0, ToSize: 10, HasTarget: true}
	opening.AttachClock(NewClockBinding(&progressClock{p: 0.25}))
	assert.InDelta(t, 2.5, opening.CurrentSize(), 1e-9)

	// Waiting to resize: the target is known but the clock has not
	// started, so the extent is still the starting one.
	waiting := &Interval{State: ReadyToResize, RenderCount: 1, FromSize: 3, ToSize: 9, HasTarget: true}
	assert.InDelta(t, 3.0, waiting.CurrentSize(), 1e-9)

	ready := &Interval{State: ReadyToInsert, FromSize: 9, ToSize: 9, HasTarget: true}
	assert.InDelta(t, 9.0, ready.CurrentSize(), 1e-9)
}

func TestOffsetBuilder(t *testing.T) {
	base := func(i int) any { return i * 10 }
	b := OffsetBuilder(base, 3)
	assert.Equal(t, 30, b(0))
	assert.Equal(t, 50, b(2))
	assert.Nil(t, OffsetBuilder(nil, 3))
	assert.Equal(t, 0, OffsetBuilder(base, 0)(0))
}

func TestConcatBuilders(t *testing.T) {
	a := func(i int) any { return "a" }
	b := func(i int) any { return "b" }
	cat := ConcatBuilders(a, 2, b)
	assert.Equal(t, "a", cat(0))
	assert.Equal(t, "a", cat(1))
	assert.Equal(t, "b", cat(2))
}

func TestState_Predicates(t *testing.T) {
	assert.True(t, Removing.Animated())
	assert.True(t, ReorderClosing.Animated())
	assert.False(t, Normal.Animated())
	assert.False(t, ReadyToRemove.Animated())

	assert.True(t, ReadyToResize.Ready())
	assert.True(t, ReadyToRemove.Ready())
	assert.False(t, Resizing.Ready())

	assert.True(t, Removing.Gap())
	assert.True(t, ReorderOpening.Gap())
	assert.False(t, Normal.Gap())
	assert.False(t, ReorderHolder.Gap())

	assert.True(t, ReorderHolder.Holder())
	assert.True(t, MoveHolder.Holder())
	assert.False(t, MoveDrop.Holder())

	assert.True(t, Normal.Splittable())
	assert.True(t, Resizing.Splittable())
	assert.False(t, Removing.Splittable())
	assert.False(t, ReorderHolder.Splittable())
}

func TestInterval_String(t *testing.T) {
	iv := &Interval{State: ReadyToRemove, RenderCount: 2, OffCount: 2, Priority: 1}
	s := iv.String()
	assert.Contains(t, s, "ready-to-remove")
	assert.Contains(t, s, "render=2")
	assert.Contains(t, s, "off=2")
}
