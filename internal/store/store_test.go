package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glide/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestWriteReadTrace(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.BeginTrace(ctx, "session", 10)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	ev := Event{
		Seq:      1,
		Kind:     EventRange,
		From:     3,
		Remove:   2,
		Insert:   4,
		Priority: 1,
		Updates: []engine.UpdateRecord{
			{RenderIndex: 3, OldRenderCount: 2, NewRenderCount: 2, Mode: engine.UpdateRebuild},
			{RenderIndex: 3, OldRenderCount: 2, NewRenderCount: 1, Mode: engine.UpdateReplace},
		},
	}
	require.NoError(t, s.WriteEvent(ctx, id, ev))
	require.NoError(t, s.WriteEvent(ctx, id, Event{Seq: 2, Kind: EventSettle}))

	tr, err := s.ReadTrace(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "session", tr.Label)
	assert.Equal(t, 10, tr.InitialCount)
	assert.False(t, tr.CreatedAt.IsZero())
	require.Len(t, tr.Events, 2)
	assert.Equal(t, ev.Updates, tr.Events[0].Updates)
	assert.Equal(t, EventRange, tr.Events[0].Kind)
	assert.Equal(t, EventSettle, tr.Events[1].Kind)
	assert.Empty(t, tr.Events[1].Updates)
}

func TestWriteEvent_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	id, err := s.BeginTrace(ctx, "", 5)
	require.NoError(t, err)

	ev := Event{Seq: 1, Kind: EventChange, From: 2, Remove: 1}
	require.NoError(t, s.WriteEvent(ctx, id, ev))
	require.NoError(t, s.WriteEvent(ctx, id, ev), "duplicate seq is a no-op")

	tr, err := s.ReadTrace(ctx, id)
	require.NoError(t, err)
	assert.Len(t, tr.Events, 1)
}

func TestReadTrace_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadTrace(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTraceNotFound)
}

func TestListTraces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.BeginTrace(ctx, "first", 5)
	require.NoError(t, err)
	require.NoError(t, s.WriteEvent(ctx, a, Event{Seq: 1, Kind: EventRange, Remove: 1}))
	require.NoError(t, s.WriteEvent(ctx, a, Event{Seq: 2, Kind: EventSettle}))

	_, err = s.BeginTrace(ctx, "second", 3)
	require.NoError(t, err)

	infos, err := s.ListTraces(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byLabel := map[string]TraceInfo{}
	for _, info := range infos {
		byLabel[info.Label] = info
	}
	assert.Equal(t, 2, byLabel["first"].EventCount)
	assert.Equal(t, 0, byLabel["second"].EventCount)
	assert.Equal(t, 5, byLabel["first"].InitialCount)
}

func TestDeleteTrace_Cascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	id, err := s.BeginTrace(ctx, "", 5)
	require.NoError(t, err)
	require.NoError(t, s.WriteEvent(ctx, id, Event{
		Seq: 1, Kind: EventRange, Remove: 1,
		Updates: []engine.UpdateRecord{{RenderIndex: 0, OldRenderCount: 1, NewRenderCount: 1, Mode: engine.UpdateRebuild}},
	}))

	require.NoError(t, s.DeleteTrace(ctx, id))
	_, err = s.ReadTrace(ctx, id)
	assert.ErrorIs(t, err, ErrTraceNotFound)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM updates`).Scan(&n))
	assert.Equal(t, 0, n)
}
