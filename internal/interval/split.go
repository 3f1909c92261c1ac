package interval

import "fmt"

// SplitAt cuts iv after leading item-space positions, mutating iv into
// the leading piece and linking a new trailing piece after it. Both
// pieces are returned.
//
// Requires 0 < leading < iv.ItemCount and a Splittable state.
//
// Shape rules:
//   - Normal, Inserting, ReadyToChange pieces keep the same state with
//     proportionally divided counts. Off-list builders are carried with
//     an index offset applied to the trailing piece, so it still
//     requests the correct items from the caller-owned builder. A
//     running clock binding is shared by both pieces.
//   - ReadyToRemove, Removing intervals only hold items absorbed from a
//     spawned neighbor; the dismissal itself (render slots, off-list
//     builder, clock) stays on the leading piece and the trailing item
//     share becomes a spawned ReadyToResize again.
//   - ReadyToResize, Resizing, ReadyToInsert pieces each become a
//     ReadyToResize holding a proportional share of the interrupted
//     current size measurement. The extent of physical content is never
//     measured twice; it is apportioned. Any clock is detached and any
//     in-flight measurement token is cleared, so a late measurement
//     result is discarded as an expected race.
func (l *List) SplitAt(iv *Interval, leading int) (*Interval, *Interval, error) {
	if !iv.State.Splittable() {
		return nil, nil, fmt.Errorf("split %s interval: state does not support splitting", iv.State)
	}
	if leading <= 0 || leading >= iv.ItemCount {
		return nil, nil, fmt.Errorf("split at %d of %d items: cut point must be interior", leading, iv.ItemCount)
	}
	trailing := iv.ItemCount - leading

	switch iv.State {
	case Normal, Inserting, ReadyToChange:
		right := &Interval{
			State:       iv.State,
			RenderCount: trailing,
			ItemCount:   trailing,
			Priority:    iv.Priority,
			AsChange:    iv.AsChange,
		}
		if iv.OffCount > 0 {
			right.OffCount = trailing
			right.Build = OffsetBuilder(iv.Build, leading)
			iv.OffCount = leading
		}
		if iv.Clock != nil {
			right.AttachClock(iv.Clock)
		}
		iv.RenderCount = leading
		iv.ItemCount = leading
		l.InsertAfter(right, iv)
		l.invalidateFrom(iv)
		return iv, right, nil

	case ReadyToRemove, Removing:
		// Only an absorbed spawn gives a dismissal item positions. The
		// displayed outgoing content, its builder, and any running clock
		// stay whole on the leading piece; the trailing item share
		// reverts to the spawned form it had before the merge.
		right := &Interval{
			State:     ReadyToResize,
			ItemCount: trailing,
			Priority:  iv.Priority,
		}
		iv.ItemCount = leading
		l.InsertAfter(right, iv)
		l.invalidateFrom(iv)
		return iv, right, nil

	case ReadyToResize, Resizing, ReadyToInsert:
		cur := iv.CurrentSize()
		frac := float64(leading) / float64(iv.ItemCount)
		spawned := iv.RenderCount == 0
		render := 1
		if spawned {
			render = 0
		}
		right := &Interval{
			State:       ReadyToResize,
			RenderCount: render,
			ItemCount:   trailing,
			Priority:    iv.Priority,
			FromSize:    cur * (1 - frac),
		}
		iv.DetachClock()
		iv.State = ReadyToResize
		iv.RenderCount = render
		iv.ItemCount = leading
		iv.FromSize = cur * frac
		iv.ToSize = 0
		iv.HasTarget = false
		iv.MeasureToken = ""
		l.InsertAfter(right, iv)
		l.invalidateFrom(iv)
		return iv, right, nil
	}
	return nil, nil, fmt.Errorf("split %s interval: unhandled state", iv.State)
}
