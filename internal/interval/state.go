package interval

// State identifies the lifecycle stage of an interval.
//
// Two independent lifecycles exist. The replace path walks
// Normal → ReadyToRemove → Removing → ReadyToResize → Resizing →
// ReadyToInsert → Inserting → Normal, skipping the removal stages when
// nothing is removed and disposing after the resize when nothing is
// inserted. The change path walks Normal → ReadyToChange → Inserting
// (flagged as a change) → Normal; content is swapped in place, never
// resized. Reorder and move states are gap/holder pairs managed by their
// own session logic.
type State int

const (
	// Normal is a fully settled interval: one render slot per item.
	Normal State = iota

	// ReadyToRemove covers items that have left item space but are still
	// displayed at full size, waiting for a dismiss clock.
	ReadyToRemove

	// Removing is ReadyToRemove with its clock running.
	Removing

	// ReadyToResize is a gap whose extent must change, waiting for
	// measurement and a clock. A spawned ReadyToResize (RenderCount 0)
	// holds incoming items that have no visual gap yet.
	ReadyToResize

	// Resizing is ReadyToResize with its clock running.
	Resizing

	// ReadyToInsert holds incoming items behind a fully opened gap,
	// waiting for a fade-in clock.
	ReadyToInsert

	// Inserting is ReadyToInsert with its clock running. An interval
	// flagged AsChange took the change path: old content fades out while
	// new content fades in over the same span.
	Inserting

	// ReadyToChange covers items whose content was replaced one-for-one,
	// waiting for a clock. Old content renders through the off-list
	// builder until the transition starts.
	ReadyToChange

	// ReorderHolder pins the item-space position of the picked item
	// during a reorder. It renders nothing in place.
	ReorderHolder

	// ReorderOpening is the gap at the current drop target. It starts at
	// the picked item's measured size, or grows from zero after a target
	// change.
	ReorderOpening

	// ReorderClosing is an abandoned drop-target gap shrinking to zero.
	ReorderClosing

	// MoveHolder pins the destination item-space position of an item
	// being moved programmatically.
	MoveHolder

	// MoveDrop is the gap opening at a programmatic move destination.
	MoveDrop

	// Disposed marks an interval removed from its list. Disposed
	// intervals are never members of any list.
	Disposed
)

var stateNames = map[State]string{
	Normal:         "normal",
	ReadyToRemove:  "ready-to-remove",
	Removing:       "removing",
	ReadyToResize:  "ready-to-resize",
	Resizing:       "resizing",
	ReadyToInsert:  "ready-to-insert",
	Inserting:      "inserting",
	ReadyToChange:  "ready-to-change",
	ReorderHolder:  "reorder-holder",
	ReorderOpening: "reorder-opening",
	ReorderClosing: "reorder-closing",
	MoveHolder:     "move-holder",
	MoveDrop:       "move-drop",
	Disposed:       "disposed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Animated reports whether this state runs under a clock.
func (s State) Animated() bool {
	switch s {
	case Removing, Resizing, Inserting, ReorderOpening, ReorderClosing, MoveDrop:
		return true
	}
	return false
}

// Ready reports whether this state is waiting for coordination to start
// its clock.
func (s State) Ready() bool {
	switch s {
	case ReadyToRemove, ReadyToResize, ReadyToInsert, ReadyToChange:
		return true
	}
	return false
}

// Gap reports whether render slots in this state have no 1:1 item
// correspondence: a render index falling inside a gap translates to no
// item index.
func (s State) Gap() bool {
	switch s {
	case ReadyToRemove, Removing, ReadyToResize, Resizing, ReadyToInsert,
		ReorderOpening, ReorderClosing, MoveDrop:
		return true
	}
	return false
}

// Holder reports whether this state pins an item-space position without
// rendering it: the item is unreachable by render index while held.
func (s State) Holder() bool {
	return s == ReorderHolder || s == MoveHolder
}

// Splittable reports whether a notification range may cut an interval of
// this state into pieces. Removal states are splittable only because an
// absorbed spawn can give them item positions; holder states are
// protected by the reorder exclusivity contract, and everything else
// with no items is skipped by the item-space walk.
func (s State) Splittable() bool {
	switch s {
	case Normal, Inserting, ReadyToChange, ReadyToInsert, ReadyToResize, Resizing,
		ReadyToRemove, Removing:
		return true
	}
	return false
}
