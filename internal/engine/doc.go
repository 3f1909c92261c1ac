// Package engine implements the glide interval-tracking engine.
//
// The engine maintains, at every instant, a correct mapping between two
// coordinate spaces that temporarily disagree while a list animates:
// item space (positions in the caller's underlying data sequence) and
// render space (positions in the sequence of visual slots actually
// displayed). It consumes range notifications, decomposes the list into
// stateful intervals, coordinates which transitions may start, and
// answers translation queries.
//
// ARCHITECTURE:
//
// Single-Writer Mutation:
// All list mutation happens on the host's frame-scheduler thread. The
// two external re-entry points - a notification call and a clock or
// measurement completion - each run to completion before any other
// mutation occurs. Completions raised while the engine is already
// mutating are enqueued and drained to a fixed point rather than
// recursing, so the single-threaded mutation invariant stays auditable.
//
// Processing Flow:
//  1. Notify* distributes the range over the interval list, splitting
//     and converting the overlapped intervals (distribute.go).
//  2. coordinate() promotes ready intervals whose priority is
//     admissible, requests size measurement, and advances intervals
//     whose clock completed (coordinate.go).
//  3. optimize() merges adjacent compatible intervals right to left to
//     bound interval count (optimize.go).
//  4. Translation queries are answered from the lazily validated
//     offset cache (translate.go).
//
// Batched notifications (Batch) defer coordination until the outer call
// returns: a sequence of range edits inside one batch produces exactly
// one coordination pass and no intermediate clock starts.
//
// Reordering is mutually exclusive with ordinary notifications. A
// structural notification during an active reorder is a contract
// violation, not a race: the caller must cancel the reorder first.
package engine
