package engine

import "github.com/roach88/glide/internal/interval"

// optimize walks the list right to left and merges every adjacent pair
// that has reached compatible states, bounding the interval count.
// Merging never changes the list's total render or item counts, only
// the number of intervals.
func (e *Engine) optimize() {
	if e.disposed {
		return
	}
	x := e.list.Back()
	for x != nil {
		prev := x.Prev()
		if prev != nil {
			// On success x is absorbed into prev; continuing from prev
			// collapses whole chains in one pass.
			e.mergeInto(prev, x)
		}
		x = prev
	}
}

// mergeInto merges b into its left neighbor a when a type-specific rule
// allows it. Reports whether the merge happened.
//
// Rules, per pair of states:
//   - two settled Normal intervals merge unconditionally;
//   - a spawned ready-to-resize interval (no render slots yet) merges
//     into an adjacent off-list removal by adding its item count;
//     adjacent spawned intervals merge the same way;
//   - two waiting off-list intervals of the same state and priority
//     merge by concatenating their builders with an index offset.
//
// Intervals whose clocks are both running are never merged: the merged
// interval has exactly one clock, and two live clocks cannot be
// reconciled without detaching one.
func (e *Engine) mergeInto(a, b *interval.Interval) bool {
	l := e.list
	switch {
	case a.State == interval.Normal && b.State == interval.Normal:
		a.RenderCount += b.RenderCount
		a.ItemCount += b.ItemCount
		l.Remove(b)
		l.Invalidate(a)
		return true

	case b.Spawned() && (a.State == interval.ReadyToRemove || a.State == interval.Removing):
		if a.Priority != b.Priority {
			return false
		}
		// The incoming items ride along with the removal; once the old
		// content is gone the surviving gap owns them for its resize and
		// insert stages.
		a.ItemCount += b.ItemCount
		l.Remove(b)
		l.Invalidate(a)
		return true

	case a.Spawned() && b.Spawned():
		if a.Priority != b.Priority {
			return false
		}
		a.ItemCount += b.ItemCount
		l.Remove(b)
		l.Invalidate(a)
		return true

	case a.State == interval.ReadyToRemove && b.State == interval.ReadyToRemove:
		// Both waiting: clocks not yet started, safe to share one later.
		if a.Priority != b.Priority {
			return false
		}
		a.Build = interval.ConcatBuilders(a.Build, a.OffCount, b.Build)
		a.OffCount += b.OffCount
		a.RenderCount += b.RenderCount
		a.ItemCount += b.ItemCount
		l.Remove(b)
		l.Invalidate(a)
		return true

	case a.State == interval.ReadyToChange && b.State == interval.ReadyToChange:
		if a.Priority != b.Priority {
			return false
		}
		a.Build = interval.ConcatBuilders(a.Build, a.OffCount, b.Build)
		a.OffCount += b.OffCount
		a.RenderCount += b.RenderCount
		a.ItemCount += b.ItemCount
		l.Remove(b)
		l.Invalidate(a)
		return true
	}
	return false
}
