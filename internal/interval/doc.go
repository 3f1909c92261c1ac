// Package interval implements the ordered decomposition of an animated
// list into contiguous, independently-stateful segments.
//
// ARCHITECTURE:
//
// A List is a doubly-linked sequence of Interval values. Each interval
// covers a contiguous run of positions in two coordinate spaces at once:
//
//   - item space: positions in the caller's current underlying data
//     sequence (ItemCount per interval, always counted).
//   - render space: positions in the sequence of visual slots actually
//     produced for display (RenderCount per interval). During an
//     animation the two spaces disagree: a shrinking gap stands in for
//     removed items, a growing gap for items not yet faded in.
//
// Each interval carries one lifecycle state (see State). The engine
// package mutates intervals in place as their state advances; this
// package owns the structural primitives: linking, splitting, merging,
// and the lazily validated prefix-sum offsets.
//
// OFFSET CACHE:
//
// Render and item offsets are prefix sums over the list. They are not
// recomputed eagerly on every mutation. The list tracks a single
// leftmost-dirty pointer; any structural change invalidates offsets from
// the affected interval onward, and a read validates forward from the
// dirty pointer only as far as the requested interval. Invalidation
// (List.invalidateFrom) and validation (List.validateThrough) are two
// explicit operations, not getter side effects.
//
// The concatenation of ItemCount over all member intervals always equals
// the caller's current item-sequence length. Off-list content (removed
// items still fading out, old content of a changed range) is tracked
// separately as OffCount and rendered through a caller-supplied builder.
package interval
