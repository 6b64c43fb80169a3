package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
)

// newTagCommand creates the tag command group.
func newTagCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Short:   "Manage tags",
		GroupID: groupLabel,
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := c.Store.AddTag(args[0], color)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", tag.Name, tag.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "Display color")

	var editName, editColor string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.UpdateTag(args[0], editName, editColor); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated tag %s\n", args[0])
			return nil
		},
	}
	edit.Flags().StringVar(&editName, "name", "", "New name")
	edit.Flags().StringVar(&editColor, "color", "", "New display color")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag",
		Long:  `Delete a tag. The tag is removed from every task that references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := resolveTagIDs(c, args[:1])
			if err != nil {
				return err
			}
			if err := c.Store.DeleteTag(ids[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", ids[0])
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, tag := range c.Store.Tags() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", tag.ID, tag.Name, tag.Color)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, edit, rm, ls)
	return cmd
}

// newPersonCommand creates the person command group.
func newPersonCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Short:   "Manage people",
		GroupID: groupLabel,
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.Store.AddPerson(args[0], color)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created person %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "Display color")

	var editName, editColor string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.UpdatePerson(args[0], editName, editColor); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated person %s\n", args[0])
			return nil
		},
	}
	edit.Flags().StringVar(&editName, "name", "", "New name")
	edit.Flags().StringVar(&editColor, "color", "", "New display color")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a person",
		Long:  `Delete a person. The person is removed from every task that references them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := resolvePersonIDs(c, args[:1])
			if err != nil {
				return err
			}
			if err := c.Store.DeletePerson(ids[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted person %s\n", ids[0])
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List people",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, p := range c.Store.People() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Color)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, edit, rm, ls)
	return cmd
}
