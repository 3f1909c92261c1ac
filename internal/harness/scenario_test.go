package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, "ok.yaml", `
name: ok
description: a valid scenario
initial: 4
steps:
  - notify: {from: 0, remove: 1, insert: 2, priority: 3}
  - settle: true
  - translate: {item: 2}
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Name)
	assert.Equal(t, 4, s.Initial)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[0].Notify)
	assert.Equal(t, 3, s.Steps[0].Notify.Priority)
	assert.True(t, s.Steps[1].Settle)
	require.NotNil(t, s.Steps[2].Translate)
	require.NotNil(t, s.Steps[2].Translate.Item)
	assert.Equal(t, 2, *s.Steps[2].Translate.Item)
}

func TestLoadScenario_RejectsUnknownField(t *testing.T) {
	path := writeScenario(t, "typo.yaml", `
name: typo
initial: 4
stepz:
  - settle: true
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stepz")
}

func TestLoadScenario_RejectsAmbiguousStep(t *testing.T) {
	path := writeScenario(t, "ambiguous.yaml", `
name: ambiguous
initial: 4
steps:
  - notify: {from: 0, remove: 1, insert: 0}
    settle: true
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one step field")
}

func TestLoadScenario_RejectsDanglingReorder(t *testing.T) {
	path := writeScenario(t, "dangling.yaml", `
name: dangling
initial: 4
steps:
  - reorder: {start: {index: 1}}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never stopped")
}

func TestLoadScenario_RejectsStopWithoutStart(t *testing.T) {
	path := writeScenario(t, "orphan-stop.yaml", `
name: orphan-stop
initial: 4
steps:
  - reorder: {stop: {}}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without an active session")
}

func TestLoadScenario_RejectsNestedBatch(t *testing.T) {
	path := writeScenario(t, "nested.yaml", `
name: nested
initial: 4
steps:
  - batch:
      - settle: true
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch may only contain")
}

func TestLoadScenario_RejectsEmptyNotify(t *testing.T) {
	path := writeScenario(t, "empty-notify.yaml", `
name: empty-notify
initial: 4
steps:
  - notify: {from: 1, remove: 0, insert: 0}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove or insert")
}

func TestLoadScenario_RejectsTranslateBothAxes(t *testing.T) {
	path := writeScenario(t, "both.yaml", `
name: both
initial: 4
steps:
  - translate: {render: 1, item: 2}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of render, item")
}

func TestLoadScenarioDir(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	for i := 1; i < len(scenarios); i++ {
		assert.LessOrEqual(t, scenarios[i-1].Name, scenarios[i].Name,
			"scenarios should load in stable name order")
	}
}

func TestStepDescribe(t *testing.T) {
	five := 5
	cases := []struct {
		step Step
		want string
	}{
		{Step{Notify: &NotifyStep{From: 1, Remove: 2, Insert: 3, Priority: 4}}, "notify from=1 remove=2 insert=3 prio=4"},
		{Step{Change: &ChangeStep{From: 2, Count: 1}}, "change from=2 count=1 prio=0"},
		{Step{Move: &MoveStep{From: 0, To: 3}}, "move from=0 to=3 prio=0"},
		{Step{Reorder: &ReorderStep{Start: &ReorderStart{Index: 2}}}, "reorder start index=2"},
		{Step{Reorder: &ReorderStep{Target: &five}}, "reorder target index=5"},
		{Step{Reorder: &ReorderStep{Stop: &ReorderStop{Cancel: true}}}, "reorder stop cancel"},
		{Step{Reorder: &ReorderStep{Stop: &ReorderStop{}}}, "reorder stop drop"},
		{Step{Settle: true}, "settle"},
		{Step{Translate: &TranslateStep{Render: &five}}, "translate render=5"},
		{Step{Batch: []Step{{Settle: true}, {Change: &ChangeStep{From: 0, Count: 1}}}}, "batch [settle change]"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.step.describe())
	}
}
