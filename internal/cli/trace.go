package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/glide/internal/store"
)

// TraceListOptions holds flags for the trace list command.
type TraceListOptions struct {
	*RootOptions
	Database string
}

// TraceDeleteOptions holds flags for the trace delete command.
type TraceDeleteOptions struct {
	*RootOptions
	Database string
	TraceID  string
}

// TraceListEntry is one trace summary in the list report.
type TraceListEntry struct {
	TraceID      string    `json:"trace_id"`
	Label        string    `json:"label"`
	InitialCount int       `json:"initial_count"`
	Events       int       `json:"events"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTraceCommand creates the trace command with its subcommands.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect and manage recorded traces",
		Long: `Inspect and manage the traces stored in a trace database.

Examples:
  glide trace list --db ./glide.db
  glide trace delete --db ./glide.db --trace 5f0c...`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newTraceListCommand(rootOpts))
	cmd.AddCommand(newTraceDeleteCommand(rootOpts))

	return cmd
}

func newTraceListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded traces, newest first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func newTraceDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceDeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete",
		Short:         "Delete a recorded trace and its events",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceDelete(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.TraceID, "trace", "", "trace id to delete (required)")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

func runTraceList(opts *TraceListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	infos, err := st.ListTraces(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list traces", err)
	}

	entries := make([]TraceListEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, TraceListEntry{
			TraceID:      info.ID,
			Label:        info.Label,
			InitialCount: info.InitialCount,
			Events:       info.EventCount,
			CreatedAt:    info.CreatedAt,
		})
	}

	if opts.Format == "json" {
		return EncodeResponse(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: entries})
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No traces found in database.")
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Trace", "Label", "Initial", "Events", "Recorded"})
	for _, e := range entries {
		tbl.AppendRow(table.Row{e.TraceID, e.Label, e.InitialCount, e.Events, humanize.Time(e.CreatedAt)})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d trace(s)", len(entries))})
	tbl.Render()
	return nil
}

func runTraceDelete(opts *TraceDeleteOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	// Read first so deleting an unknown id fails instead of silently
	// succeeding.
	if _, err := st.ReadTrace(ctx, opts.TraceID); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read trace %s", opts.TraceID), err)
	}
	if err := st.DeleteTrace(ctx, opts.TraceID); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to delete trace %s", opts.TraceID), err)
	}

	if opts.Format == "json" {
		return EncodeResponse(cmd.OutOrStdout(), CLIResponse{
			Status:  "ok",
			Data:    map[string]string{"deleted": opts.TraceID},
			TraceID: opts.TraceID,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted trace %s\n", opts.TraceID)
	return nil
}
