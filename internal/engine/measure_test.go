package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glide/internal/interval"
)

// deferredMeasurer records requests and resolves nothing until told to,
// modelling a renderer that measures across frames.
type deferredMeasurer struct {
	e        *Engine
	requests []MeasureRequest
	cancels  []string
}

func (m *deferredMeasurer) Measure(req MeasureRequest) func() {
	m.requests = append(m.requests, req)
	return func() { m.cancels = append(m.cancels, req.Token) }
}

func (m *deferredMeasurer) resolve(token string, size interval.Size) {
	m.e.ResolveMeasure(token, size)
}

func newDeferredEngine(t *testing.T, n int) (*Engine, *ManualClockFactory, *deferredMeasurer) {
	t.Helper()
	clocks := NewManualClockFactory()
	m := &deferredMeasurer{}
	e := New(n,
		WithClockFactory(clocks.New),
		WithMeasurer(m),
		WithTokenGenerator(NewFixedGenerator("tok")),
		WithLogger(quietLogger()),
	)
	m.e = e
	return e, clocks, m
}

func TestMeasure_SourceExtentRequestedAtRemoval(t *testing.T) {
	e, _, m := newDeferredEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 2, 0, 0, offBuilder("old")))

	require.Len(t, m.requests, 1)
	req := m.requests[0]
	assert.Equal(t, "tok-1", req.Token)
	assert.Equal(t, MeasureSource, req.Purpose)
	assert.Equal(t, 2, req.Count)
	require.NotNil(t, req.Build)
	assert.Equal(t, "old-0", req.Build(0))

	m.resolve("tok-1", 7)
	rem := findState(e, interval.Removing)
	require.NotNil(t, rem)
	assert.InDelta(t, 7.0, rem.FromSize, 1e-9)
}

func TestMeasure_ResizeWaitsForTarget(t *testing.T) {
	e, clocks, m := newDeferredEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 0, 4, 0, nil))

	// The gap opened but cannot start its clock without a target.
	require.Len(t, m.requests, 1)
	assert.Equal(t, MeasureTarget, m.requests[0].Purpose)
	assert.Equal(t, 4, m.requests[0].Count)
	gap := findState(e, interval.ReadyToResize)
	require.NotNil(t, gap)
	assert.Equal(t, 1, gap.RenderCount)
	assert.Equal(t, 0, clocks.Running())

	m.resolve(m.requests[0].Token, 4)
	assert.NotNil(t, findState(e, interval.Resizing))
	assert.Equal(t, 1, clocks.Running())

	clocks.Settle()
	assert.True(t, e.Quiesced())
	assert.Equal(t, 14, e.RenderCount())
}

func TestMeasure_StaleTokenDiscarded(t *testing.T) {
	e, _, m := newDeferredEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 2, 0, 0, offBuilder("old")))

	// Unknown token: silently dropped.
	m.resolve("tok-99", 5)
	rem := findState(e, interval.Removing)
	require.NotNil(t, rem)
	assert.InDelta(t, 0.0, rem.FromSize, 1e-9)

	// Double resolve: the second delivery is stale.
	m.resolve("tok-1", 7)
	m.resolve("tok-1", 9)
	assert.InDelta(t, 7.0, rem.FromSize, 1e-9)
}

func TestMeasure_CancelledWhenIntervalInvalidated(t *testing.T) {
	e, clocks, m := newDeferredEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 0, 4, 0, nil))
	require.Len(t, m.requests, 1)
	pending := m.requests[0].Token

	// The incoming items are removed before their extent was ever
	// reported; the measurement must be cancelled with them.
	require.NoError(t, e.NotifyRange(3, 4, 0, 0, nil))
	assert.Contains(t, m.cancels, pending)

	// A late result for the cancelled request changes nothing.
	m.resolve(pending, 4)
	clocks.Settle()
	assert.True(t, e.Quiesced())
	assert.Equal(t, 10, e.RenderCount())
}

func TestMeasure_DisposeCancelsInFlight(t *testing.T) {
	e, _, m := newDeferredEngine(t, 10)
	require.NoError(t, e.NotifyRange(3, 0, 4, 0, nil))
	require.Len(t, m.requests, 1)

	require.NoError(t, e.Dispose())
	assert.Contains(t, m.cancels, m.requests[0].Token)

	// Resolving after dispose is a harmless no-op.
	m.resolve(m.requests[0].Token, 4)
}
