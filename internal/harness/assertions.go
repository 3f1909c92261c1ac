package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/interval"
)

// AssertSettled checks the engine has fully settled: no pending
// animations and a single plain interval covering every item.
func AssertSettled(t *testing.T, e *engine.Engine) {
	t.Helper()
	assert.True(t, e.Quiesced(), "engine should be quiesced")
	ivs := e.Intervals()
	if e.ItemCount() == 0 {
		assert.Empty(t, ivs, "empty list should hold no intervals")
		return
	}
	if assert.Len(t, ivs, 1, "settled list should collapse to one interval") {
		assert.Equal(t, interval.Normal, ivs[0].State)
	}
	assert.Equal(t, e.ItemCount(), e.RenderCount(),
		"settled render space should match item space")
}

// AssertItemConservation checks the engine's item count tracks the
// caller's sequence length exactly, both as the reported total and as
// the sum over intervals.
func AssertItemConservation(t *testing.T, e *engine.Engine, want int) {
	t.Helper()
	assert.Equal(t, want, e.ItemCount(), "item count should match sequence length")
	sum := 0
	for _, iv := range e.Intervals() {
		sum += iv.ItemCount
	}
	assert.Equal(t, want, sum, "interval item counts should sum to sequence length")
}

// AssertTranslationConsistent checks the two coordinate mappings agree:
// every render slot that maps to an item maps back to the same slot,
// and every item with a render position maps back to the same item.
func AssertTranslationConsistent(t *testing.T, e *engine.Engine) {
	t.Helper()
	for r := 0; r < e.RenderCount(); r++ {
		item, ok := e.RenderIndexToItemIndex(r)
		if !ok {
			continue
		}
		back, ok := e.ItemIndexToRenderIndex(item)
		if assert.True(t, ok, "item %d should map back to a render slot", item) {
			assert.Equal(t, r, back, "render %d round trip", r)
		}
	}
	for i := 0; i < e.ItemCount(); i++ {
		r, ok := e.ItemIndexToRenderIndex(i)
		if !ok {
			continue
		}
		back, ok := e.RenderIndexToItemIndex(r)
		if assert.True(t, ok, "render %d should map back to an item", r) {
			assert.Equal(t, i, back, "item %d round trip", i)
		}
	}
}

// AssertUpdateArithmetic checks the emitted update records reproduce
// the engine's render count when replayed over the starting count. A
// renderer applying the records blindly must end up with exactly the
// slots the engine thinks exist.
func AssertUpdateArithmetic(t *testing.T, initialRender int, updates []engine.UpdateRecord, e *engine.Engine) {
	t.Helper()
	render := initialRender
	for _, u := range updates {
		render += u.NewRenderCount - u.OldRenderCount
	}
	assert.Equal(t, e.RenderCount(), render,
		"update records should replay to the current render count")
}
