package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/glide/internal/store"
)

const basicScenarioYAML = `name: cli-basic
description: replace one item with two, then settle
initial: 6
steps:
  - notify:
      from: 2
      remove: 1
      insert: 2
  - settle: true
  - translate:
      render: 1
`

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSimulateMissingScenario(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load scenario")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSimulateInvalidScenario(t *testing.T) {
	path := writeScenarioFile(t, "name: broken\ninitial: 3\nsteps:\n  - settle: true\n    translate:\n      render: 0\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one step field")
}

func TestSimulateTextTimeline(t *testing.T) {
	path := writeScenarioFile(t, basicScenarioYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Scenario: cli-basic")
	assert.Contains(t, out, "initial")
	assert.Contains(t, out, "notify from=2 remove=1 insert=2 prio=0")
	assert.Contains(t, out, "normal(render=7,item=7)")
	assert.Contains(t, out, "Updates (")
	assert.Contains(t, out, "note [02 translate render=1]")
}

func TestSimulateJSON(t *testing.T) {
	path := writeScenarioFile(t, basicScenarioYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cli-basic", data["scenario"])
	frames, ok := data["frames"].([]any)
	require.True(t, ok)
	// Initial frame plus one per step.
	assert.Len(t, frames, 4)
}

func TestSimulateRecordRequiresDB(t *testing.T) {
	path := writeScenarioFile(t, basicScenarioYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--record"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--record requires --db")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSimulateRecordStoresTrace(t *testing.T) {
	path := writeScenarioFile(t, basicScenarioYAML)
	dbPath := filepath.Join(t.TempDir(), "glide.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewSimulateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--record", "--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotEmpty(t, resp.TraceID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	tr, err := st.ReadTrace(context.Background(), resp.TraceID)
	require.NoError(t, err)
	assert.Equal(t, "cli-basic", tr.Label)
	assert.Equal(t, 6, tr.InitialCount)
	// notify and settle are recorded; the translate query is not.
	require.Len(t, tr.Events, 2)
	assert.Equal(t, store.EventRange, tr.Events[0].Kind)
	assert.Equal(t, store.EventSettle, tr.Events[1].Kind)
	assert.NotEmpty(t, tr.Events[0].Updates)
}

func TestSimulateRecordedTraceReplaysFaithfully(t *testing.T) {
	path := writeScenarioFile(t, basicScenarioYAML)
	dbPath := filepath.Join(t.TempDir(), "glide.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	simCmd := NewSimulateCommand(rootOpts)
	simCmd.SetOut(buf)
	simCmd.SetArgs([]string{path, "--record", "--db", dbPath})
	require.NoError(t, simCmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := store.Replay(context.Background(), st, resp.TraceID, quiet)
	require.NoError(t, err)
	defer res.Engine.Dispose()
	assert.Empty(t, res.Divergences)
	assert.Equal(t, 7, res.Engine.ItemCount())
}
