package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted engine session.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Initial is the item count the engine starts with.
	Initial int `yaml:"initial"`

	// Steps are executed in order. Each step sets exactly one of the
	// Step fields.
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	Notify    *NotifyStep    `yaml:"notify,omitempty"`
	Change    *ChangeStep    `yaml:"change,omitempty"`
	Move      *MoveStep      `yaml:"move,omitempty"`
	Reorder   *ReorderStep   `yaml:"reorder,omitempty"`
	Batch     []Step         `yaml:"batch,omitempty"`
	Settle    bool           `yaml:"settle,omitempty"`
	Translate *TranslateStep `yaml:"translate,omitempty"`
}

// NotifyStep is a structural replace notification in item space.
type NotifyStep struct {
	From     int `yaml:"from"`
	Remove   int `yaml:"remove"`
	Insert   int `yaml:"insert"`
	Priority int `yaml:"priority,omitempty"`
}

// ChangeStep is an in-place content change notification.
type ChangeStep struct {
	From     int `yaml:"from"`
	Count    int `yaml:"count"`
	Priority int `yaml:"priority,omitempty"`
}

// MoveStep relocates one item from one item index to another.
type MoveStep struct {
	From     int     `yaml:"from"`
	To       int     `yaml:"to"`
	Priority int     `yaml:"priority,omitempty"`
	Size     float64 `yaml:"size,omitempty"`
}

// ReorderStep drives the interactive reorder session. Exactly one of
// Start, Target, Stop must be set.
type ReorderStep struct {
	Start  *ReorderStart `yaml:"start,omitempty"`
	Target *int          `yaml:"target,omitempty"`
	Stop   *ReorderStop  `yaml:"stop,omitempty"`
}

// ReorderStart picks up the item at a render index.
type ReorderStart struct {
	Index int     `yaml:"index"`
	Size  float64 `yaml:"size,omitempty"`
}

// ReorderStop ends the session, dropping or cancelling.
type ReorderStop struct {
	Cancel bool `yaml:"cancel,omitempty"`
}

// TranslateStep queries the coordinate mapping and records the answer
// in the timeline. Exactly one of Render, Item must be set.
type TranslateStep struct {
	// Render maps a render index to its item index.
	Render *int `yaml:"render,omitempty"`
	// Item maps an item index to its render index.
	Item *int `yaml:"item,omitempty"`
}

// kind returns the step's discriminator name, for labels and errors.
func (s *Step) kind() string {
	switch {
	case s.Notify != nil:
		return "notify"
	case s.Change != nil:
		return "change"
	case s.Move != nil:
		return "move"
	case s.Reorder != nil:
		return "reorder"
	case s.Batch != nil:
		return "batch"
	case s.Settle:
		return "settle"
	case s.Translate != nil:
		return "translate"
	}
	return "empty"
}

// describe renders the step as a one-line timeline label.
func (s *Step) describe() string {
	switch {
	case s.Notify != nil:
		return fmt.Sprintf("notify from=%d remove=%d insert=%d prio=%d",
			s.Notify.From, s.Notify.Remove, s.Notify.Insert, s.Notify.Priority)
	case s.Change != nil:
		return fmt.Sprintf("change from=%d count=%d prio=%d",
			s.Change.From, s.Change.Count, s.Change.Priority)
	case s.Move != nil:
		return fmt.Sprintf("move from=%d to=%d prio=%d",
			s.Move.From, s.Move.To, s.Move.Priority)
	case s.Reorder != nil:
		r := s.Reorder
		switch {
		case r.Start != nil:
			return fmt.Sprintf("reorder start index=%d", r.Start.Index)
		case r.Target != nil:
			return fmt.Sprintf("reorder target index=%d", *r.Target)
		default:
			if r.Stop != nil && r.Stop.Cancel {
				return "reorder stop cancel"
			}
			return "reorder stop drop"
		}
	case s.Batch != nil:
		kinds := make([]string, len(s.Batch))
		for i := range s.Batch {
			kinds[i] = s.Batch[i].kind()
		}
		return "batch [" + strings.Join(kinds, " ") + "]"
	case s.Settle:
		return "settle"
	case s.Translate != nil:
		if s.Translate.Render != nil {
			return fmt.Sprintf("translate render=%d", *s.Translate.Render)
		}
		return fmt.Sprintf("translate item=%d", *s.Translate.Item)
	}
	return "empty"
}

// LoadScenario reads and parses one scenario YAML file. Unknown fields
// are rejected, so a typo in a step key fails loudly instead of turning
// the step into a no-op.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// LoadScenarioDir loads every *.yaml scenario in dir, sorted by file
// name for stable test ordering.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Initial < 0 {
		return fmt.Errorf("initial must be non-negative, got %d", s.Initial)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	reorderDepth := 0
	for i := range s.Steps {
		if err := validateStep(fmt.Sprintf("steps[%d]", i), &s.Steps[i], &reorderDepth); err != nil {
			return err
		}
	}
	if reorderDepth != 0 {
		return fmt.Errorf("reorder session started but never stopped")
	}
	return nil
}

func validateStep(path string, st *Step, reorderDepth *int) error {
	set := 0
	if st.Notify != nil {
		set++
	}
	if st.Change != nil {
		set++
	}
	if st.Move != nil {
		set++
	}
	if st.Reorder != nil {
		set++
	}
	if st.Batch != nil {
		set++
	}
	if st.Settle {
		set++
	}
	if st.Translate != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%s: exactly one step field must be set, got %d", path, set)
	}

	switch {
	case st.Notify != nil:
		n := st.Notify
		if n.From < 0 || n.Remove < 0 || n.Insert < 0 {
			return fmt.Errorf("%s: notify fields must be non-negative", path)
		}
		if n.Remove == 0 && n.Insert == 0 {
			return fmt.Errorf("%s: notify must remove or insert something", path)
		}
	case st.Change != nil:
		if st.Change.From < 0 || st.Change.Count <= 0 {
			return fmt.Errorf("%s: change needs from >= 0 and count > 0", path)
		}
	case st.Move != nil:
		if st.Move.From < 0 || st.Move.To < 0 {
			return fmt.Errorf("%s: move indexes must be non-negative", path)
		}
	case st.Reorder != nil:
		r := st.Reorder
		rset := 0
		if r.Start != nil {
			rset++
		}
		if r.Target != nil {
			rset++
		}
		if r.Stop != nil {
			rset++
		}
		if rset != 1 {
			return fmt.Errorf("%s: reorder needs exactly one of start, target, stop", path)
		}
		switch {
		case r.Start != nil:
			if *reorderDepth != 0 {
				return fmt.Errorf("%s: reorder already active", path)
			}
			if r.Start.Index < 0 {
				return fmt.Errorf("%s: reorder start index must be non-negative", path)
			}
			*reorderDepth = 1
		case r.Target != nil:
			if *reorderDepth == 0 {
				return fmt.Errorf("%s: reorder target without an active session", path)
			}
		case r.Stop != nil:
			if *reorderDepth == 0 {
				return fmt.Errorf("%s: reorder stop without an active session", path)
			}
			*reorderDepth = 0
		}
	case st.Batch != nil:
		if len(st.Batch) == 0 {
			return fmt.Errorf("%s: batch must contain at least one step", path)
		}
		for i := range st.Batch {
			inner := &st.Batch[i]
			if inner.Batch != nil || inner.Reorder != nil || inner.Settle || inner.Translate != nil {
				return fmt.Errorf("%s[%d]: batch may only contain notify, change, move", path, i)
			}
			if err := validateStep(fmt.Sprintf("%s[%d]", path, i), inner, reorderDepth); err != nil {
				return err
			}
		}
	case st.Translate != nil:
		tr := st.Translate
		if (tr.Render == nil) == (tr.Item == nil) {
			return fmt.Errorf("%s: translate needs exactly one of render, item", path)
		}
	}
	return nil
}
