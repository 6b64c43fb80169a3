package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/engine"
)

// newSubtaskCommand creates the subtask command group.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Short:   "Manage subtasks",
		GroupID: groupTask,
	}

	cmd.AddCommand(
		newSubtaskAddCommand(c),
		newSubtaskReorderCommand(c),
		newSubtaskMoveCommand(c),
		newSubtaskDetachCommand(c),
	)

	return cmd
}

// newSubtaskAddCommand creates the subtask add command.
func newSubtaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Desc   string
		Due    string
		Tags   []string
		People []string
	}

	cmd := &cobra.Command{
		Use:   "add <parent-id> <title>",
		Short: "Add a subtask under a task",
		Long: `Add a subtask under a task or recurring instance.

The subtask inherits its parent's quadrant and is appended at the end
of the parent's subtask list. Subtasks cannot hold subtasks of their
own, and templates cannot hold subtasks.

Examples:
  quadra subtask add t-1 "Collect metrics"
  quadra subtask add t-1 "Draft outline" --due 2026-09-10`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tagIDs, err := resolveTagIDs(c, opts.Tags)
			if err != nil {
				return err
			}
			personIDs, err := resolvePersonIDs(c, opts.People)
			if err != nil {
				return err
			}

			input := engine.AddSubtaskInput{
				Title:       strings.Join(args[1:], " "),
				Description: opts.Desc,
				TagIDs:      tagIDs,
				PersonIDs:   personIDs,
			}
			if opts.Due != "" {
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				input.DueDate = &due
			}

			task, err := c.Store.AddSubtask(args[0], input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask %s under %s\n", task.ID, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Desc, "desc", "d", "", "Subtask description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Tag name or id (repeatable)")
	cmd.Flags().StringSliceVar(&opts.People, "person", nil, "Person name or id (repeatable)")

	return cmd
}

// newSubtaskReorderCommand creates the subtask reorder command.
func newSubtaskReorderCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <parent-id> <subtask-id>...",
		Short: "Reorder the subtasks of a task",
		Long: `Reorder the subtasks of a task. The given ids must be exactly the
parent's current subtasks, in the desired order.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.ReorderSubtasks(args[0], args[1:]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reordered subtasks of %s\n", args[0])
			return nil
		},
	}
	return cmd
}

// newSubtaskMoveCommand creates the subtask move command.
func newSubtaskMoveCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <subtask-id> <new-parent-id>",
		Short: "Move a subtask to another parent",
		Long: `Reattach a subtask to a different parent task. The subtask adopts
the new parent's quadrant, and both the old and new parent re-evaluate
their completion state.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.MoveSubtaskToParent(args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %s under %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

// newSubtaskDetachCommand creates the subtask detach command.
func newSubtaskDetachCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach <subtask-id>",
		Short: "Promote a subtask to a top-level task",
		Long: `Detach a subtask from its parent, promoting it to a standalone
task at the end of its quadrant. The former parent re-evaluates its
completion state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.DetachSubtask(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Detached %s\n", args[0])
			return nil
		},
	}
	return cmd
}
