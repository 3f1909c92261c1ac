package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glide/internal/store"
)

func TestTraceListMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceListEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "glide.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"list", "--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No traces found")
}

func TestTraceListShowsStoredTraces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "glide.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.BeginTrace(context.Background(), "first-session", 8)
	require.NoError(t, err)
	_, err = st.BeginTrace(context.Background(), "second-session", 3)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"list", "--db", dbPath})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "first-session")
	assert.Contains(t, out, "second-session")
	assert.Contains(t, out, "Total: 2 trace(s)")
}

func TestTraceListJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "glide.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	traceID, err := st.BeginTrace(context.Background(), "json-session", 4)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"list", "--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	entries, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, traceID, entry["trace_id"])
	assert.Equal(t, "json-session", entry["label"])
	assert.Equal(t, float64(4), entry["initial_count"])
}

func TestTraceDeleteMissingFlags(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"delete", "--db", "whatever.db"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceDeleteUnknownTrace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "glide.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"delete", "--db", dbPath, "--trace", "no-such-trace"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read trace")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceDeleteRemovesTrace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "glide.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	traceID, err := st.BeginTrace(context.Background(), "doomed", 2)
	require.NoError(t, err)
	st.Close()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"delete", "--db", dbPath, "--trace", traceID})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Deleted trace "+traceID)

	st, err = store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	infos, err := st.ListTraces(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}
