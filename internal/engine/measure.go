package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/glide/internal/interval"
)

// MeasurePurpose distinguishes the two measurement call sites.
type MeasurePurpose int

const (
	// MeasureSource measures off-list content at its current extent,
	// issued when a removal starts so the later resize knows its
	// starting size.
	MeasureSource MeasurePurpose = iota + 1
	// MeasureTarget measures incoming content, issued when a gap enters
	// its ready-to-resize stage.
	MeasureTarget
)

// MeasureRequest asks the external renderer for the extent of count
// items produced by Build. Measurement is asynchronous: the renderer
// may defer the answer across multiple frames for very large batches.
type MeasureRequest struct {
	// Token correlates the eventual Resolve call with this request.
	Token string
	// Purpose tells the renderer which extent is wanted.
	Purpose MeasurePurpose
	// Count is the number of items to measure.
	Count int
	// Build produces the item at each index in [0, Count). Nil when the
	// engine has no builder for the content; the measurer must then
	// estimate.
	Build interval.Builder
}

// Measurer is the external measurement collaborator. Measure returns a
// cancel function; after cancellation the result must not be resolved
// (a late Resolve is discarded by token, an expected race rather than a
// fault, but cancelling promptly avoids wasted work).
//
// Results are delivered by calling Engine.ResolveMeasure from the host
// loop.
type Measurer interface {
	Measure(req MeasureRequest) (cancel func())
}

// StaticMeasurer resolves every request synchronously with a fixed
// per-item extent. Used by tests, the harness, and the terminal demo,
// where every slot is one row tall.
type StaticMeasurer struct {
	PerItem interval.Size
	resolve func(token string, size interval.Size)
}

// NewStaticMeasurer returns a measurer reporting perItem extent per
// measured item. Bind attaches it to an engine.
func NewStaticMeasurer(perItem interval.Size) *StaticMeasurer {
	return &StaticMeasurer{PerItem: perItem}
}

// Bind points the measurer at the engine that will receive results.
func (m *StaticMeasurer) Bind(e *Engine) {
	m.resolve = e.ResolveMeasure
}

// Measure resolves immediately.
func (m *StaticMeasurer) Measure(req MeasureRequest) func() {
	if m.resolve != nil {
		m.resolve(req.Token, m.PerItem*interval.Size(req.Count))
	}
	return func() {}
}

// TokenGenerator produces measurement request tokens. Implemented by
// UUIDv7Generator (production) and FixedGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 tokens, helpful when
// correlating measurement requests in traces.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests.
type FixedGenerator struct {
	prefix string
	n      int
}

// NewFixedGenerator creates a generator producing "<prefix>-1",
// "<prefix>-2", and so on.
func NewFixedGenerator(prefix string) *FixedGenerator {
	return &FixedGenerator{prefix: prefix}
}

// Generate returns the next token in the sequence.
func (g *FixedGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
