package engine

import "github.com/roach88/glide/internal/interval"

// RenderIndexToItemIndex converts a render-space index to the item it
// displays. The second result is false when i is out of range or falls
// inside a gap interval: the render index sits "between" items while an
// animation runs, with no 1:1 item correspondence.
func (e *Engine) RenderIndexToItemIndex(i int) (int, bool) {
	x, off := e.list.FindByRenderIndex(i)
	if x == nil || x.State.Gap() || x.State.Holder() {
		return 0, false
	}
	return e.list.ItemOffset(x) + off, true
}

// ItemIndexToRenderIndex converts an item-space index to the render
// slot displaying it. The second result is false when i is out of range
// or the item is not currently reachable by render index: it is hidden
// behind a reorder holder or still inside an opening gap.
func (e *Engine) ItemIndexToRenderIndex(i int) (int, bool) {
	x, off := e.list.FindByItemIndex(i)
	if x == nil || x.State.Gap() || x.State.Holder() {
		return 0, false
	}
	return e.list.RenderOffset(x) + off, true
}

// BuildSlot produces the content for one render-space slot: live items
// through the engine's item builder, transitioning off-list content
// through the owning interval's builder. Returns false for gap slots
// with nothing to show (a bare resize gap) and out-of-range indices.
func (e *Engine) BuildSlot(i int) (any, bool) {
	x, off := e.list.FindByRenderIndex(i)
	if x == nil {
		return nil, false
	}
	if x.OffCount > 0 && x.Build != nil && off < x.OffCount {
		return x.Build(off), true
	}
	if !x.State.Gap() && x.ItemCount > 0 && e.itemBuilder != nil {
		return e.itemBuilder(e.list.ItemOffset(x) + off), true
	}
	return nil, false
}

// SlotExtent reports the current extent of a gap slot: the
// clock-interpolated size of a resizing or reorder gap. Settled slots
// report false; the renderer lays those out from their own content.
func (e *Engine) SlotExtent(i int) (interval.Size, bool) {
	x, _ := e.list.FindByRenderIndex(i)
	if x == nil || !x.State.Gap() {
		return 0, false
	}
	switch x.State {
	case interval.ReadyToRemove, interval.Removing:
		// Dismissal keeps its content's own extent.
		return 0, false
	}
	return x.CurrentSize(), true
}
