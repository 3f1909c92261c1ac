package engine

import (
	"sync"

	"github.com/roach88/glide/internal/interval"
)

// eventKind distinguishes engine-internal events.
type eventKind int

const (
	// eventClockDone signals that an animation clock reached progress 1.
	eventClockDone eventKind = iota + 1
	// eventMeasureDone carries an asynchronous measurement result.
	eventMeasureDone
)

// event is one deferred engine mutation. Clock completions and
// measurement results are queued rather than handled inline, so a
// completion that arrives while the engine is already mutating never
// re-enters mid-traversal.
type event struct {
	kind    eventKind
	binding *interval.ClockBinding
	token   string
	size    interval.Size
}

// eventQueue is a FIFO queue drained to fixed point after each external
// entry point. The mutex only guards against a misbehaving measurer
// resolving from another goroutine; draining itself is single-threaded.
type eventQueue struct {
	mu     sync.Mutex
	events []event
}

func newEventQueue() *eventQueue {
	return &eventQueue{events: make([]event, 0, 8)}
}

func (q *eventQueue) enqueue(e event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

func (q *eventQueue) tryDequeue() (event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return event{}, false
	}
	e := q.events[0]
	// Nil out the slot so the binding pointer does not outlive the event.
	q.events[0] = event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
