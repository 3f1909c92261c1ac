package cli

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/glide/internal/tui"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Items int
	Frame time.Duration
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive terminal demo",
		Long: `Run an interactive animated list in the terminal.

Keys:
  up/down    move the cursor (or the drop target during a reorder)
  a          append an item
  i          insert at the cursor
  d          delete at the cursor
  c          change the item at the cursor
  m          move the item at the cursor down two slots
  s          shuffle (reverse) the list through the diff dispatcher
  space      pick up / drop the item at the cursor
  esc        cancel the reorder (or quit)
  q, ctrl-c  quit

Examples:
  glide demo
  glide demo --items 20 --frame 150ms`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts)
		},
	}

	cmd.Flags().IntVar(&opts.Items, "items", 12, "initial item count")
	cmd.Flags().DurationVar(&opts.Frame, "frame", 250*time.Millisecond, "animation frame duration")

	return cmd
}

func runDemo(opts *DemoOptions) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open terminal screen", err)
	}

	demo := tui.New(screen, opts.Items, tui.WithFrameDuration(opts.Frame))
	if err := demo.Run(); err != nil {
		return WrapExitError(ExitCommandError, "demo failed", err)
	}
	return nil
}
