package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Settled(t *testing.T) {
	e, _, _ := newTestEngine(t, 10)
	for i := 0; i < 10; i++ {
		ri, ok := e.ItemIndexToRenderIndex(i)
		require.True(t, ok)
		assert.Equal(t, i, ri)
		ii, ok := e.RenderIndexToItemIndex(i)
		require.True(t, ok)
		assert.Equal(t, i, ii)
	}
	_, ok := e.RenderIndexToItemIndex(10)
	assert.False(t, ok)
	_, ok = e.ItemIndexToRenderIndex(-1)
	assert.False(t, ok)
}

func TestTranslate_DuringReplace(t *testing.T) {
	e, _, _ := newTestEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 2, 4, 0, offBuilder("old")))
	// Decomposition: 3 settled, a 2-slot dismissal owning the 4
	// incoming items, 5 settled.

	ii, ok := e.RenderIndexToItemIndex(2)
	require.True(t, ok)
	assert.Equal(t, 2, ii)

	// Slots inside the dismissal sit between items.
	_, ok = e.RenderIndexToItemIndex(3)
	assert.False(t, ok)
	_, ok = e.RenderIndexToItemIndex(4)
	assert.False(t, ok)

	// The trailing settled run is shifted: item 7 is the first item
	// after the four incoming ones.
	ii, ok = e.RenderIndexToItemIndex(5)
	require.True(t, ok)
	assert.Equal(t, 7, ii)

	// Incoming items are not rendered yet.
	_, ok = e.ItemIndexToRenderIndex(4)
	assert.False(t, ok)
	ri, ok := e.ItemIndexToRenderIndex(8)
	require.True(t, ok)
	assert.Equal(t, 6, ri)
}

func TestTranslate_DuringReorder(t *testing.T) {
	e, _, _ := newTestEngine(t, 10)
	_, err := e.NotifyStartReorder(4, 1)
	require.NoError(t, err)

	// The opening gap renders no item.
	_, ok := e.RenderIndexToItemIndex(4)
	assert.False(t, ok)

	// The held item has no render slot of its own.
	_, ok = e.ItemIndexToRenderIndex(4)
	assert.False(t, ok)

	ii, ok := e.RenderIndexToItemIndex(5)
	require.True(t, ok)
	assert.Equal(t, 5, ii)
}

func TestBuildSlot(t *testing.T) {
	items := func(i int) any { return fmt.Sprintf("item-%d", i) }
	e, _, _ := newTestEngine(t, 6, WithItemBuilder(items))
	require.NoError(t, e.NotifyRange(2, 2, 1, 0, offBuilder("old")))
	// Decomposition: 2 settled, a 2-slot dismissal owning 1 incoming
	// item, 2 settled.

	got, ok := e.BuildSlot(0)
	require.True(t, ok)
	assert.Equal(t, "item-0", got)

	// Dismissing slots serve the off-list content.
	got, ok = e.BuildSlot(2)
	require.True(t, ok)
	assert.Equal(t, "old-0", got)
	got, ok = e.BuildSlot(3)
	require.True(t, ok)
	assert.Equal(t, "old-1", got)

	// Live items after the dismissal: items 3..4 in post-edit space.
	got, ok = e.BuildSlot(4)
	require.True(t, ok)
	assert.Equal(t, "item-3", got)

	_, ok = e.BuildSlot(6)
	assert.False(t, ok)
}

func TestSlotExtent_SettledReportsFalse(t *testing.T) {
	e, _, _ := newTestEngine(t, 5)
	_, ok := e.SlotExtent(2)
	assert.False(t, ok)

	// Dismissal keeps its content's extent; the renderer lays it out
	// from the content itself.
	require.NoError(t, e.NotifyRange(1, 1, 0, 0, offBuilder("old")))
	_, ok = e.SlotExtent(1)
	assert.False(t, ok)
}
