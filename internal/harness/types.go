package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/glide/internal/engine"
)

// Frame is one timeline snapshot, taken after a step has executed and
// its event queue has drained.
type Frame struct {
	// Label names the step that produced this frame.
	Label string
	// Intervals holds one formatted line per interval, head to tail.
	Intervals []string
	// ItemCount and RenderCount are the totals at snapshot time.
	ItemCount   int
	RenderCount int
	// Clocks is the number of animations running at snapshot time.
	Clocks int
	// Notes carries step-specific output, e.g. translate answers.
	Notes []string
}

// Result is the full outcome of running one scenario.
type Result struct {
	// Scenario is the scenario name.
	Scenario string
	// Frames holds one snapshot per step, preceded by an initial frame.
	Frames []Frame
	// Updates is every render-space update record the engine emitted,
	// in emission order.
	Updates []engine.UpdateRecord
	// Rebuilds counts rebuild notifications.
	Rebuilds int
}

// Render formats the result as the golden timeline text: one block per
// frame, one indented line per interval.
func (r *Result) Render() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	for _, f := range r.Frames {
		fmt.Fprintf(&b, "-- %s (item=%d render=%d clocks=%d)\n",
			f.Label, f.ItemCount, f.RenderCount, f.Clocks)
		for _, line := range f.Intervals {
			fmt.Fprintf(&b, "   %s\n", line)
		}
		for _, n := range f.Notes {
			fmt.Fprintf(&b, "   > %s\n", n)
		}
	}
	fmt.Fprintf(&b, "-- updates (%d)\n", len(r.Updates))
	for _, u := range r.Updates {
		fmt.Fprintf(&b, "   %s at=%d old=%d new=%d\n",
			u.Mode, u.RenderIndex, u.OldRenderCount, u.NewRenderCount)
	}
	return []byte(b.String())
}
