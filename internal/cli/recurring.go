package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
)

// newTemplateCommand creates the template command group for controlling
// recurring templates.
func newTemplateCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Short:   "Manage recurring templates",
		GroupID: groupTask,
	}

	pause := &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause a recurring template",
		Long:  `Pause a recurring template. Paused templates generate no instances.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.SetPaused(args[0], true); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Paused %s\n", args[0])
			return nil
		},
	}

	resume := &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume a paused template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.SetPaused(args[0], false); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Resumed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(pause, resume)
	return cmd
}

// newGenCommand creates the gen command for generating due recurring
// instances.
func newGenCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen",
		Short:   "Generate due recurring instances",
		GroupID: groupTask,
		Long: `Generate an instance for every active template whose rule has fired
since the last generated instance. At most one instance is created per
template per run; missed fires collapse onto the most recent one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.Scheduler.GenerateDue()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %d instance(s)\n", n)
			return nil
		},
	}
	return cmd
}
