package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
)

// newUndoCommand creates the undo command.
func newUndoCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "undo",
		Short:   "Undo the last change",
		GroupID: groupHistory,
		Long: `Restore the board to its state before the last change.

Audit history recorded by the undone change is retracted, so the log
never describes events the board no longer reflects.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.History.Undo(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Undone")
			return nil
		},
	}
	return cmd
}

// newRedoCommand creates the redo command.
func newRedoCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "redo",
		Short:   "Redo the last undone change",
		GroupID: groupHistory,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.History.Redo(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Redone")
			return nil
		},
	}
	return cmd
}

// newLogCommand creates the log command for showing a task's audit history.
func newLogCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log <id>",
		Short:   "Show a task's change history",
		GroupID: groupHistory,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.Audit.EntriesForTask(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range entries {
				detail := e.Field
				if e.From != "" || e.To != "" {
					detail = fmt.Sprintf("%s: %q -> %q", e.Field, e.From, e.To)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
					e.At.Format("2006-01-02 15:04:05"), e.Action, detail)
			}
			return tw.Flush()
		},
	}
	return cmd
}
