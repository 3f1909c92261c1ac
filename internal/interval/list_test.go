package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettled(t *testing.T) {
	l := NewSettled(10)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, 10, l.TotalRenderCount())
	assert.Equal(t, 10, l.TotalItemCount())
	assert.Equal(t, Normal, l.Front().State)
}

func TestNewSettled_Zero(t *testing.T) {
	l := NewSettled(0)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.TotalRenderCount())
	assert.Equal(t, 0, l.TotalItemCount())
	assert.Nil(t, l.Front())
}

func TestList_Offsets(t *testing.T) {
	l := NewList()
	a := &Interval{State: Normal, RenderCount: 3, ItemCount: 3}
	b := &Interval{State: ReadyToRemove, RenderCount: 2, OffCount: 2}
	c := &Interval{State: ReadyToResize, ItemCount: 4}
	d := &Interval{State: Normal, RenderCount: 5, ItemCount: 5}
	for _, iv := range []*Interval{a, b, c, d} {
		l.PushBack(iv)
	}

	assert.Equal(t, 0, l.RenderOffset(a))
	assert.Equal(t, 3, l.RenderOffset(b))
	assert.Equal(t, 5, l.RenderOffset(c))
	assert.Equal(t, 5, l.RenderOffset(d))

	assert.Equal(t, 0, l.ItemOffset(a))
	assert.Equal(t, 3, l.ItemOffset(b))
	assert.Equal(t, 3, l.ItemOffset(c))
	assert.Equal(t, 7, l.ItemOffset(d))

	assert.Equal(t, 10, l.TotalRenderCount())
	assert.Equal(t, 12, l.TotalItemCount())
}

func TestList_OffsetsRevalidateAfterMutation(t *testing.T) {
	l := NewList()
	a := &Interval{State: Normal, RenderCount: 3, ItemCount: 3}
	b := &Interval{State: Normal, RenderCount: 5, ItemCount: 5}
	l.PushBack(a)
	l.PushBack(b)
	require.Equal(t, 3, l.RenderOffset(b))

	a.RenderCount = 1
	l.Invalidate(a)
	assert.Equal(t, 1, l.RenderOffset(b))
	assert.Equal(t, 6, l.TotalRenderCount())

	// Mutating the tail must not disturb already-valid prefixes.
	b.RenderCount = 2
	l.Invalidate(b)
	assert.Equal(t, 0, l.RenderOffset(a))
	assert.Equal(t, 3, l.TotalRenderCount())
}

func TestList_InsertBeforeAfter(t *testing.T) {
	l := NewSettled(4)
	mid := &Interval{State: ReadyToResize, ItemCount: 2}
	l.InsertAfter(mid, l.Front())
	tailGap := &Interval{State: ReorderOpening, RenderCount: 1}
	l.InsertBefore(tailGap, mid)

	states := []State{}
	for x := l.Front(); x != nil; x = x.Next() {
		states = append(states, x.State)
	}
	assert.Equal(t, []State{Normal, ReorderOpening, ReadyToResize}, states)
	assert.Equal(t, 5, l.TotalRenderCount())
	assert.Equal(t, 6, l.TotalItemCount())
}

func TestList_RemoveDisposes(t *testing.T) {
	l := NewList()
	a := &Interval{State: Normal, RenderCount: 2, ItemCount: 2}
	b := &Interval{State: ReadyToResize, ItemCount: 1, MeasureToken: "tok-1"}
	l.PushBack(a)
	l.PushBack(b)

	l.Remove(b)
	assert.Equal(t, 1, l.Len())
	assert.True(t, b.Disposed())
	assert.Nil(t, b.Next())
	assert.Nil(t, b.Prev())
	assert.Nil(t, b.List())
	assert.Empty(t, b.MeasureToken, "disposal must invalidate pending measurement")
	assert.Equal(t, 2, l.TotalItemCount())
}

func TestList_RemoveReleasesClock(t *testing.T) {
	l := NewList()
	c := &countingClock{}
	a := &Interval{State: Removing, RenderCount: 1}
	a.AttachClock(NewClockBinding(c))
	l.PushBack(a)

	l.Remove(a)
	assert.Nil(t, a.Clock)
	assert.Equal(t, 1, c.stops)
}

func TestList_FindByRenderIndex(t *testing.T) {
	l := NewList()
	a := &Interval{State: Normal, RenderCount: 3, ItemCount: 3}
	b := &Interval{State: Removing, RenderCount: 2, OffCount: 2}
	c := &Interval{State: Normal, RenderCount: 5, ItemCount: 5}
	for _, iv := range []*Interval{a, b, c} {
		l.PushBack(iv)
	}

	x, off := l.FindByRenderIndex(0)
	assert.Same(t, a, x)
	assert.Equal(t, 0, off)

	x, off = l.FindByRenderIndex(4)
	assert.Same(t, b, x)
	assert.Equal(t, 1, off)

	x, off = l.FindByRenderIndex(9)
	assert.Same(t, c, x)
	assert.Equal(t, 4, off)

	x, _ = l.FindByRenderIndex(10)
	assert.Nil(t, x)
	x, _ = l.FindByRenderIndex(-1)
	assert.Nil(t, x)
}

func TestList_FindByItemIndex_SkipsEmptied(t *testing.T) {
	l := NewList()
	a := &Interval{State: Normal, RenderCount: 3, ItemCount: 3}
	b := &Interval{State: Removing, RenderCount: 2, OffCount: 2}
	c := &Interval{State: Normal, RenderCount: 5, ItemCount: 5}
	for _, iv := range []*Interval{a, b, c} {
		l.PushBack(iv)
	}

	// The removal holds no item-space positions; index 3 lands on c.
	x, off := l.FindByItemIndex(3)
	assert.Same(t, c, x)
	assert.Equal(t, 0, off)

	x, _ = l.FindByItemIndex(8)
	assert.Nil(t, x)
}

// countingClock records Stop calls so tests can observe binding release.
type countingClock struct {
	stops int
	done  func()
}

func (c *countingClock) Start(done func()) { c.done = done }
func (c *countingClock) Stop()             { c.stops++ }
func (c *countingClock) Progress() float64 { return 0 }
