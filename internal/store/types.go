package store

import (
	"time"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// EventKind identifies one recorded engine entry point.
type EventKind string

const (
	EventRange         EventKind = "range"
	EventChange        EventKind = "change"
	EventMove          EventKind = "move"
	EventReorderStart  EventKind = "reorder-start"
	EventReorderTarget EventKind = "reorder-target"
	EventReorderStop   EventKind = "reorder-stop"

	// EventSettle marks a point where the session ran its clocks to
	// quiescence. Replay settles at the same points, so interval
	// timelines line up.
	EventSettle EventKind = "settle"
)

// Event is one recorded notification. Field use depends on Kind:
// range uses From/Remove/Insert/Priority, change uses From/Remove
// (the covered count)/Priority, move uses From (source item index)
// /Insert (destination item index)/Priority/Size, reorder-start uses
// From (render index)/Size, reorder-target uses From, and reorder-stop
// uses Cancel.
type Event struct {
	Seq      int64
	Kind     EventKind
	From     int
	Remove   int
	Insert   int
	Priority int
	Size     interval.Size
	Cancel   bool

	// Updates are the update records the engine produced in response,
	// in emission order.
	Updates []engine.UpdateRecord
}

// Trace is one fully loaded recorded session.
type Trace struct {
	ID           string
	Label        string
	InitialCount int
	CreatedAt    time.Time
	Events       []Event
}

// TraceInfo summarizes a stored trace for listings.
type TraceInfo struct {
	ID           string
	Label        string
	InitialCount int
	CreatedAt    time.Time
	EventCount   int
}
