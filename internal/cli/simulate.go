package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/glide/internal/engine"
	"github.com/roach88/glide/internal/harness"
	"github.com/roach88/glide/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Record   bool
	Database string
}

// SimulateFrame is one timeline snapshot in the simulate report.
type SimulateFrame struct {
	Label       string   `json:"label"`
	ItemCount   int      `json:"item_count"`
	RenderCount int      `json:"render_count"`
	Clocks      int      `json:"clocks"`
	Intervals   []string `json:"intervals"`
	Notes       []string `json:"notes,omitempty"`
}

// SimulateUpdate is one render-space update record in the report.
type SimulateUpdate struct {
	Mode        string `json:"mode"`
	RenderIndex int    `json:"render_index"`
	OldCount    int    `json:"old_count"`
	NewCount    int    `json:"new_count"`
}

// SimulateReport holds the result of running one scenario.
type SimulateReport struct {
	Scenario string           `json:"scenario"`
	Frames   []SimulateFrame  `json:"frames"`
	Updates  []SimulateUpdate `json:"updates"`
	Rebuilds int              `json:"rebuilds"`
	TraceID  string           `json:"trace_id,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run a scripted scenario and print its timeline",
		Long: `Run a scenario file against a fresh engine and print the resulting
interval timeline, one frame per step.

With --record, the same steps are also recorded into a trace database,
so the session can be replayed later with 'glide replay'.

Exit codes:
  0 - Scenario ran to completion
  1 - The engine rejected a step
  2 - Command error (scenario not found, invalid YAML, database error)

Examples:
  glide simulate scenario.yaml
  glide simulate scenario.yaml --record --db ./glide.db
  glide simulate scenario.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the session into a trace database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required with --record)")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command, path string) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("loaded scenario %s (%d steps)", scenario.Name, len(scenario.Steps))

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario execution failed", err)
	}

	report := buildSimulateReport(result)

	if opts.Record {
		if opts.Database == "" {
			return NewExitError(ExitCommandError, "--record requires --db")
		}
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		traceID, err := recordScenario(ctx, st, scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record scenario", err)
		}
		report.TraceID = traceID
		formatter.VerboseLog("recorded trace %s", traceID)
	}

	if opts.Format == "json" {
		return outputSimulateJSON(cmd, report)
	}
	return outputSimulateText(cmd, report, opts.Verbose)
}

func buildSimulateReport(result *harness.Result) SimulateReport {
	report := SimulateReport{
		Scenario: result.Scenario,
		Frames:   make([]SimulateFrame, 0, len(result.Frames)),
		Updates:  make([]SimulateUpdate, 0, len(result.Updates)),
		Rebuilds: result.Rebuilds,
	}
	for _, f := range result.Frames {
		report.Frames = append(report.Frames, SimulateFrame{
			Label:       f.Label,
			ItemCount:   f.ItemCount,
			RenderCount: f.RenderCount,
			Clocks:      f.Clocks,
			Intervals:   f.Intervals,
			Notes:       f.Notes,
		})
	}
	for _, u := range result.Updates {
		report.Updates = append(report.Updates, SimulateUpdate{
			Mode:        u.Mode.String(),
			RenderIndex: u.RenderIndex,
			OldCount:    u.OldRenderCount,
			NewCount:    u.NewRenderCount,
		})
	}
	return report
}

// recordScenario re-runs the scenario's steps through a recorder so the
// session lands in the trace database. Batch steps are recorded as
// individual events: replay has no batch boundary, so recording them
// one by one keeps the recorded update stream reproducible.
func recordScenario(ctx context.Context, st *store.Store, s *harness.Scenario) (string, error) {
	clocks := engine.NewManualClockFactory()
	var rec *store.Recorder
	e := engine.New(s.Initial,
		engine.WithClockFactory(clocks.New),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithTokenGenerator(engine.NewFixedGenerator("rec")),
		engine.WithUpdateListener(func(u engine.UpdateRecord) {
			if rec != nil {
				rec.CaptureUpdate(u)
			}
		}),
	)
	defer e.Dispose()

	rec, err := store.NewRecorder(ctx, st, e, s.Name)
	if err != nil {
		return "", err
	}

	for i := range s.Steps {
		if err := recordStep(ctx, rec, clocks, &s.Steps[i]); err != nil {
			return "", fmt.Errorf("step %d: %w", i, err)
		}
	}
	return rec.TraceID(), nil
}

func recordStep(ctx context.Context, rec *store.Recorder, clocks *engine.ManualClockFactory, st *harness.Step) error {
	switch {
	case st.Notify != nil:
		n := st.Notify
		return rec.NotifyRange(ctx, n.From, n.Remove, n.Insert, n.Priority, nil)
	case st.Change != nil:
		c := st.Change
		return rec.NotifyChange(ctx, c.From, c.Count, c.Priority, nil)
	case st.Move != nil:
		m := st.Move
		size := m.Size
		if size <= 0 {
			size = 1
		}
		return rec.NotifyMove(ctx, m.From, m.To, m.Priority, size, nil)
	case st.Reorder != nil:
		r := st.Reorder
		switch {
		case r.Start != nil:
			size := r.Start.Size
			if size <= 0 {
				size = 1
			}
			_, err := rec.NotifyStartReorder(ctx, r.Start.Index, size)
			return err
		case r.Target != nil:
			return rec.NotifyUpdateReorderTarget(ctx, *r.Target)
		default:
			cancel := r.Stop != nil && r.Stop.Cancel
			_, err := rec.NotifyStopReorder(ctx, cancel)
			return err
		}
	case st.Batch != nil:
		for i := range st.Batch {
			if err := recordStep(ctx, rec, clocks, &st.Batch[i]); err != nil {
				return fmt.Errorf("batch[%d]: %w", i, err)
			}
		}
		return nil
	case st.Settle:
		clocks.Settle()
		return rec.MarkSettle(ctx)
	}
	// Translate steps are pure queries; nothing to record.
	return nil
}

func outputSimulateJSON(cmd *cobra.Command, report SimulateReport) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    report,
		TraceID: report.TraceID,
	}
	return EncodeResponse(cmd.OutOrStdout(), response)
}

func outputSimulateText(cmd *cobra.Command, report SimulateReport, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Scenario: %s\n", report.Scenario)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Step", "Items", "Render", "Clocks", "Intervals"})
	for _, f := range report.Frames {
		lines := strings.Join(f.Intervals, "\n")
		if lines == "" {
			lines = "(empty)"
		}
		tbl.AppendRow(table.Row{f.Label, f.ItemCount, f.RenderCount, f.Clocks, lines})
	}
	tbl.Render()

	for _, f := range report.Frames {
		for _, n := range f.Notes {
			fmt.Fprintf(w, "note [%s]: %s\n", f.Label, n)
		}
	}

	if verbose {
		fmt.Fprintf(w, "\nUpdates (%d):\n", len(report.Updates))
		for _, u := range report.Updates {
			fmt.Fprintf(w, "  %s at=%d old=%d new=%d\n", u.Mode, u.RenderIndex, u.OldCount, u.NewCount)
		}
		fmt.Fprintf(w, "Rebuilds: %d\n", report.Rebuilds)
	}

	if report.TraceID != "" {
		fmt.Fprintf(w, "\nRecorded trace: %s\n", report.TraceID)
	}
	return nil
}
