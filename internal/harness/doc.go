// Package harness runs YAML scenario files against the interval engine.
//
// A scenario names an initial item count and a list of steps (structural
// notifications, content changes, moves, reorder gestures, batches,
// settles, index translations). The harness executes the steps against
// an engine driven by a manual clock, snapshots the interval timeline
// after every step, and compares the rendered timeline against a golden
// file. Deterministic helpers (manual clocks, fixed measure tokens, a
// static measurer) make the timeline reproducible byte for byte.
//
// The package also exports assertion helpers for the engine's standing
// invariants, usable both inside scenario tests and from other
// packages' tests.
package harness
