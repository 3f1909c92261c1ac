package engine

import "github.com/roach88/glide/internal/interval"

// distributeRange walks the interval list in pre-edit item space,
// splits the intervals overlapping the removed range, converts each
// covered piece into its ready-to-transition form, and spawns an
// interval for the inserted items.
//
// The walk accumulates offsets by hand rather than through the cache:
// conversions take items out of item space as they happen, and the
// notification's coordinates are fixed in the space that existed when
// it was issued.
func (e *Engine) distributeRange(from, removeCount, insertCount, priority int, off interval.Builder) {
	l := e.list
	if removeCount == 0 {
		sp := &interval.Interval{State: interval.ReadyToResize, ItemCount: insertCount, Priority: priority}
		e.insertSpawnedAt(from, sp)
		return
	}

	remaining := removeCount
	consumed := 0
	var anchor *interval.Interval
	oldOff := 0
	x := l.Front()
	for x != nil && remaining > 0 {
		next := x.Next()
		n := x.ItemCount
		if n == 0 {
			x = next
			continue
		}
		if oldOff+n <= from {
			oldOff += n
			x = next
			continue
		}
		if oldOff < from {
			// Unaffected prefix stays behind as its own piece.
			left, right, err := l.SplitAt(x, from-oldOff)
			if err != nil {
				e.log.Error("prefix split failed", "state", x.State.String(), "error", err)
				return
			}
			oldOff += left.ItemCount
			x = right
			continue
		}
		take := remaining
		if take < n {
			// Unaffected suffix splits off to the right.
			left, _, err := l.SplitAt(x, take)
			if err != nil {
				e.log.Error("suffix split failed", "state", x.State.String(), "error", err)
				return
			}
			x = left
			next = x.Next()
		} else {
			take = n
		}
		conv := e.convertRemoved(x, interval.OffsetBuilder(off, consumed), priority)
		if conv != nil && anchor == nil {
			anchor = conv
		}
		consumed += take
		remaining -= take
		oldOff += take
		x = next
	}

	if insertCount > 0 {
		sp := &interval.Interval{State: interval.ReadyToResize, ItemCount: insertCount, Priority: priority}
		if anchor != nil {
			l.InsertAfter(sp, anchor)
		} else {
			// Every covered piece disposed (content that never appeared);
			// fall back to a plain boundary insert in post-edit space.
			e.insertSpawnedAt(from, sp)
		}
	}
}

// convertRemoved turns a fully covered interval into its
// ready-to-transition form. Returns the surviving interval, or nil when
// the piece disposes outright.
func (e *Engine) convertRemoved(x *interval.Interval, piece interval.Builder, priority int) *interval.Interval {
	l := e.list
	e.cancelMeasure(x)
	switch x.State {
	case interval.Normal, interval.Inserting:
		x.DetachClock()
		off := l.RenderOffset(x)
		x.State = interval.ReadyToRemove
		x.OffCount = x.ItemCount
		x.ItemCount = 0
		x.Build = piece
		x.AsChange = false
		x.Priority = priority
		l.Invalidate(x)
		e.emitUpdate(UpdateRecord{off, x.RenderCount, x.RenderCount, UpdateRebuild})
		return x

	case interval.ReadyToChange:
		// The displayed content is still the old one; its builder keeps
		// serving the dismissal.
		off := l.RenderOffset(x)
		x.State = interval.ReadyToRemove
		x.ItemCount = 0
		x.AsChange = false
		x.Priority = priority
		l.Invalidate(x)
		e.emitUpdate(UpdateRecord{off, x.RenderCount, x.RenderCount, UpdateRebuild})
		return x

	case interval.ReadyToResize, interval.Resizing, interval.ReadyToInsert:
		cur := x.CurrentSize()
		x.DetachClock()
		if x.RenderCount == 0 {
			// Incoming items that never gained a gap; nothing to animate.
			l.Remove(x)
			return nil
		}
		x.State = interval.ReadyToResize
		x.ItemCount = 0
		x.OffCount = 0
		x.Build = nil
		x.FromSize = cur
		x.ToSize = 0
		x.HasTarget = false
		x.Priority = priority
		l.Invalidate(x)
		return x

	case interval.ReadyToRemove, interval.Removing:
		// The covered items are absorbed incoming ones riding along with
		// the dismissal; they never gained render slots, so deleting them
		// is pure item-space bookkeeping. The dismissal itself runs on.
		x.ItemCount = 0
		l.Invalidate(x)
		return x

	case interval.MoveHolder:
		// finishMoves runs before distribution; reaching here means the
		// session bookkeeping is gone, so just drop the holder.
		l.Remove(x)
		return nil
	}
	e.log.Error("cannot convert interval for removal", "state", x.State.String())
	return x
}

// insertSpawnedAt links sp at item index from in post-edit space,
// splitting the interval the boundary falls inside of. Insert at an
// existing boundary needs no split.
func (e *Engine) insertSpawnedAt(from int, sp *interval.Interval) {
	l := e.list
	io := 0
	for x := l.Front(); x != nil; x = x.Next() {
		n := x.ItemCount
		if n == 0 {
			continue
		}
		if from < io+n {
			if from == io {
				l.InsertBefore(sp, x)
			} else {
				left, _, err := l.SplitAt(x, from-io)
				if err != nil {
					e.log.Error("insert split failed", "state", x.State.String(), "error", err)
					return
				}
				l.InsertAfter(sp, left)
			}
			return
		}
		io += n
	}
	l.PushBack(sp)
}

// distributeChange walks the list and converts every covered piece onto
// the change path. Change notifications keep removeCount == insertCount
// by construction, so item space is untouched and the walk can use live
// offsets.
func (e *Engine) distributeChange(from, count, priority int, off interval.Builder) {
	l := e.list
	remaining := count
	consumed := 0
	io := 0
	x := l.Front()
	for x != nil && remaining > 0 {
		next := x.Next()
		n := x.ItemCount
		if n == 0 {
			x = next
			continue
		}
		if io+n <= from {
			io += n
			x = next
			continue
		}
		if io < from {
			left, right, err := l.SplitAt(x, from-io)
			if err != nil {
				e.log.Error("prefix split failed", "state", x.State.String(), "error", err)
				return
			}
			io += left.ItemCount
			x = right
			continue
		}
		take := remaining
		if take < n {
			left, _, err := l.SplitAt(x, take)
			if err != nil {
				e.log.Error("suffix split failed", "state", x.State.String(), "error", err)
				return
			}
			x = left
			next = x.Next()
		} else {
			take = n
		}
		e.convertChanged(x, interval.OffsetBuilder(off, consumed), priority)
		consumed += take
		remaining -= take
		io += take
		x = next
	}
}

// convertChanged puts a fully covered interval onto the change path.
func (e *Engine) convertChanged(x *interval.Interval, piece interval.Builder, priority int) {
	l := e.list
	switch x.State {
	case interval.Normal, interval.Inserting:
		x.DetachClock()
		off := l.RenderOffset(x)
		x.State = interval.ReadyToChange
		x.OffCount = x.ItemCount
		x.Build = piece
		x.AsChange = true
		x.Priority = priority
		e.emitUpdate(UpdateRecord{off, x.RenderCount, x.RenderCount, UpdateRebuild})

	case interval.ReadyToChange:
		// Changed again before the first transition started. What is
		// displayed is still the original content, so the original
		// builder keeps serving it; only the priority moves.
		x.Priority = priority

	case interval.ReadyToResize, interval.Resizing, interval.ReadyToInsert,
		interval.ReadyToRemove, interval.Removing:
		// Content not displayed yet, including items absorbed into a
		// dismissal; it will build fresh when it appears, so there is
		// nothing to cross-fade.

	default:
		e.log.Error("cannot convert interval for change", "state", x.State.String())
	}
}
