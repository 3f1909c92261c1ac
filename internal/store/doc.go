// Package store persists engine traces to SQLite.
//
// A trace is a recorded editing session: the initial item count and
// every notification the engine received, in order, together with the
// update records each one produced. Traces make animation bugs
// reproducible: Replay feeds a recorded trace into a fresh engine under
// a hand-driven clock and yields exactly the interval timeline the
// original session saw.
//
// The database is a single SQLite file in WAL mode. Event ordering is
// a per-trace monotonic sequence number; reads order by it, so replay
// is deterministic.
package store
