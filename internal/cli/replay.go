package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/glide/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	TraceID  string // optional - specific trace only
}

// ReplayTraceResult holds the replay result for a single trace.
type ReplayTraceResult struct {
	TraceID     string   `json:"trace_id"`
	Label       string   `json:"label"`
	Events      int      `json:"events"`
	ItemCount   int      `json:"item_count"`
	RenderCount int      `json:"render_count"`
	Faithful    bool     `json:"faithful"`
	Divergences []string `json:"divergences,omitempty"`
}

// ReplayReport holds the overall replay result.
type ReplayReport struct {
	Traces      []ReplayTraceResult `json:"traces"`
	TotalTraces int                 `json:"total_traces"`
	AllFaithful bool                `json:"all_faithful"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded traces and verify they reproduce",
		Long: `Replay recorded traces against a fresh engine and verify that the
replayed update stream matches the recorded one.

Each trace is re-fed into a new engine under a hand-driven clock that
settles at the points the original session settled. A trace is faithful
when every replayed update record equals the recorded one.

Exit codes:
  0 - All traces replayed faithfully
  1 - Replay diverged from at least one recorded trace
  2 - Command error (database not found, unknown trace id, etc.)

Examples:
  glide replay --db ./glide.db
  glide replay --db ./glide.db --trace 5f0c...
  glide replay --db ./glide.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.TraceID, "trace", "", "replay a specific trace only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	infos, err := tracesToReplay(ctx, st, opts.TraceID)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayReport{Traces: []ReplayTraceResult{}, AllFaithful: true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No traces found in database.")
		return nil
	}

	report := ReplayReport{
		Traces:      make([]ReplayTraceResult, 0, len(infos)),
		TotalTraces: len(infos),
		AllFaithful: true,
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, info := range infos {
		res, err := store.Replay(ctx, st, info.ID, quiet)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay trace %s", info.ID), err)
		}
		tr := ReplayTraceResult{
			TraceID:     info.ID,
			Label:       info.Label,
			Events:      info.EventCount,
			ItemCount:   res.Engine.ItemCount(),
			RenderCount: res.Engine.RenderCount(),
			Faithful:    len(res.Divergences) == 0,
			Divergences: res.Divergences,
		}
		res.Engine.Dispose()
		report.Traces = append(report.Traces, tr)
		if !tr.Faithful {
			report.AllFaithful = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, report)
	}
	return outputReplayText(cmd, report, opts.Verbose)
}

func tracesToReplay(ctx context.Context, st *store.Store, traceID string) ([]store.TraceInfo, error) {
	if traceID == "" {
		infos, err := st.ListTraces(ctx)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to list traces", err)
		}
		return infos, nil
	}
	tr, err := st.ReadTrace(ctx, traceID)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read trace %s", traceID), err)
	}
	return []store.TraceInfo{{
		ID:           tr.ID,
		Label:        tr.Label,
		InitialCount: tr.InitialCount,
		CreatedAt:    tr.CreatedAt,
		EventCount:   len(tr.Events),
	}}, nil
}

// outputReplayJSON outputs the replay report as JSON.
func outputReplayJSON(cmd *cobra.Command, report ReplayReport) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
	}
	if !report.AllFaithful {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDiverged,
			Message: "replay diverged from recorded trace",
		}
	}

	if err := EncodeResponse(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if !report.AllFaithful {
		return NewExitError(ExitFailure, "replay diverged from recorded trace")
	}
	return nil
}

// outputReplayText outputs the replay report as text.
func outputReplayText(cmd *cobra.Command, report ReplayReport, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d trace(s)\n", report.TotalTraces)
	fmt.Fprintln(w)

	for _, tr := range report.Traces {
		status := "ok"
		if !tr.Faithful {
			status = "DIVERGED"
		}

		fmt.Fprintf(w, "[%s] %s (%s)\n", status, tr.TraceID, tr.Label)
		if verbose {
			fmt.Fprintf(w, "  Events: %d\n", tr.Events)
			fmt.Fprintf(w, "  Final counts: item=%d render=%d\n", tr.ItemCount, tr.RenderCount)
		}
		for _, d := range tr.Divergences {
			fmt.Fprintf(w, "  ! %s\n", d)
		}
		fmt.Fprintln(w)
	}

	if report.AllFaithful {
		fmt.Fprintln(w, "All traces replayed faithfully")
		return nil
	}

	fmt.Fprintln(w, "Replay diverged from recorded trace")
	return NewExitError(ExitFailure, "replay diverged from recorded trace")
}
