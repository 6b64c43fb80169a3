package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/engine"
	"github.com/ryoseto/quadra/internal/filter"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Quadrant    string
		Description string
		Due         string
		Rule        string
		Tags        []string
		People      []string
		Star        bool
		Template    bool
	}

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Create a new task",
		GroupID: groupTask,
		Long: `Create a new task in one of the four priority quadrants.

Examples:
  # Create a task in the Do (urgent & important) quadrant
  quadra add "Fix login bug" -q 1

  # Create a task with a due date and labels
  quadra add "Quarterly report" -q schedule --due 2026-09-15 --tag work --person alice

  # Create a recurring template that fires every weekday
  quadra add "Stand-up notes" -q 2 --template --rule weekdays`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quadrant, err := parseQuadrant(opts.Quadrant)
			if err != nil {
				return err
			}

			tagIDs, err := resolveTagIDs(c, opts.Tags)
			if err != nil {
				return err
			}
			personIDs, err := resolvePersonIDs(c, opts.People)
			if err != nil {
				return err
			}

			input := engine.AddTaskInput{
				Title:       strings.Join(args, " "),
				Description: opts.Description,
				Quadrant:    quadrant,
				TagIDs:      tagIDs,
				PersonIDs:   personIDs,
				Starred:     opts.Star,
			}
			if opts.Template {
				input.Kind = domain.KindRecurringTemplate
				input.Recurrence = opts.Rule
			}
			if opts.Due != "" {
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				input.DueDate = &due
			}

			task, err := c.Store.AddTask(input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", strings.ToLower(task.Kind.Display()), task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Quadrant, "quadrant", "q", "", "Target quadrant: 1-4, do, schedule, delegate, or eliminate (required)")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "Task description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Tag name or id (repeatable)")
	cmd.Flags().StringSliceVar(&opts.People, "person", nil, "Person name or id (repeatable)")
	cmd.Flags().BoolVar(&opts.Star, "star", false, "Star the task")
	cmd.Flags().BoolVar(&opts.Template, "template", false, "Create a recurring template instead of a task")
	cmd.Flags().StringVar(&opts.Rule, "rule", "", "Recurrence rule for --template (daily, weekdays, weekly:<day>, monthly:<n>, every:<n>d)")
	_ = cmd.MarkFlagRequired("quadrant")

	return cmd
}

// newListCommand creates the list command for showing the board.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Query     string
		From      string
		To        string
		Tags      []string
		People    []string
		Cutoff    int
		Today     bool
		Completed bool
		Starred   bool
		ShowDone  bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks by quadrant",
		GroupID: groupTask,
		Long: `Display the board, one section per quadrant.

By default completed tasks are hidden. Filter flags compose: a task is
listed when it matches every active filter, or when a subtask or parent
of it does.

Examples:
  # Show the full board
  quadra list

  # Show tasks due soon, overdue, or starred
  quadra list --today

  # Show tasks completed in a date range
  quadra list --completed --from 2026-08-01 --to 2026-08-31

  # Search within a tag
  quadra list --tag work --query report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tagIDs, err := resolveTagIDs(c, opts.Tags)
			if err != nil {
				return err
			}
			personIDs, err := resolvePersonIDs(c, opts.People)
			if err != nil {
				return err
			}

			cfg := domain.FilterConfig{
				Query:           opts.Query,
				TagIDs:          tagIDs,
				PersonIDs:       personIDs,
				View:            domain.ViewAll,
				TodayWindowDays: c.Config.View.TodayWindowDays,
				ShowCompleted:   opts.ShowDone,
			}
			if opts.Today {
				cfg.View = domain.ViewToday
			}
			if opts.Completed {
				cfg.View = domain.ViewCompleted
				cfg.ShowCompleted = true
			}
			if opts.From != "" && opts.To != "" {
				from, err := parseDate(opts.From)
				if err != nil {
					return err
				}
				to, err := parseDate(opts.To)
				if err != nil {
					return err
				}
				// Inclusive of the whole end day.
				to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
				cfg.CompletedFrom = &from
				cfg.CompletedTo = &to
			}
			if opts.Starred {
				cfg.StarredOnly = map[domain.Quadrant]bool{}
				for _, q := range domain.AllQuadrants() {
					cfg.StarredOnly[q] = true
				}
			}
			if opts.Cutoff > 0 {
				cutoff := c.Clock.Now().AddDate(0, 0, -opts.Cutoff)
				cfg.CompletedCutoff = &cutoff
			}

			visible := filter.Resolve(c.Store.Tasks(), c.Store.Tags(), c.Store.People(), cfg, c.Clock.Now())
			printBoard(cmd.OutOrStdout(), c, visible)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Today, "today", false, "Show only tasks due soon, overdue, or starred")
	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "Show only completed tasks")
	cmd.Flags().StringVar(&opts.From, "from", "", "Completed-range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Completed-range end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Query, "query", "s", "", "Case-insensitive text search")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Filter by tag name or id (repeatable, any match)")
	cmd.Flags().StringSliceVar(&opts.People, "person", nil, "Filter by person name or id (repeatable, any match)")
	cmd.Flags().BoolVar(&opts.Starred, "starred", false, "Show only starred tasks")
	cmd.Flags().BoolVarP(&opts.ShowDone, "all", "a", false, "Include completed tasks")
	cmd.Flags().IntVar(&opts.Cutoff, "cutoff", 0, "Hide tasks completed more than N days ago")

	return cmd
}

var (
	quadrantHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	templateMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// printBoard renders the visible tasks grouped by quadrant.
func printBoard(w io.Writer, c *app.Container, tasks []*domain.Task) {
	tags := make(map[string]string)
	for _, t := range c.Store.Tags() {
		tags[t.ID] = t.Name
	}
	people := make(map[string]string)
	for _, p := range c.Store.People() {
		people[p.ID] = p.Name
	}

	byQuadrant := make(map[domain.Quadrant][]*domain.Task)
	for _, t := range tasks {
		byQuadrant[t.Quadrant] = append(byQuadrant[t.Quadrant], t)
	}

	now := c.Clock.Now()
	for _, q := range domain.AllQuadrants() {
		section := byQuadrant[q]
		if len(section) == 0 {
			continue
		}
		_, _ = fmt.Fprintln(w, quadrantHeaderStyle.Render(fmt.Sprintf("[%d] %s", int(q), q.Display())))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range section {
			indent := ""
			if !t.IsTopLevel() {
				indent = "  "
			}
			_, _ = fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n",
				indent, t.ID, taskMark(t), t.Title, dueLabel(t, now), refLabel(t, tags, people))
		}
		_ = tw.Flush()
		_, _ = fmt.Fprintln(w)
	}
}

// taskMark returns the status marker for a task row.
func taskMark(t *domain.Task) string {
	switch {
	case t.Kind == domain.KindRecurringTemplate && t.Paused:
		return templateMarkStyle.Render("(paused)")
	case t.Kind == domain.KindRecurringTemplate:
		return templateMarkStyle.Render("(template)")
	case t.Completed && t.Starred:
		return "[x]*"
	case t.Completed:
		return "[x]"
	case t.Starred:
		return "[ ]*"
	default:
		return "[ ]"
	}
}

// dueLabel formats a task's due date, flagging overdue tasks.
func dueLabel(t *domain.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	label := t.DueDate.Format("2006-01-02")
	if t.IsOverdue(now) {
		return label + " (overdue)"
	}
	return label
}

// refLabel formats a task's tag and person references.
func refLabel(t *domain.Task, tags, people map[string]string) string {
	var parts []string
	for _, id := range t.TagIDs {
		if name, ok := tags[id]; ok {
			parts = append(parts, "#"+name)
		}
	}
	for _, id := range t.PersonIDs {
		if name, ok := people[id]; ok {
			parts = append(parts, "@"+name)
		}
	}
	return strings.Join(parts, " ")
}

// newShowCommand creates the show command for displaying one task.
func newShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Show task details",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.Store.Task(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s  %s\n", task.ID, task.Title)
			_, _ = fmt.Fprintf(w, "Kind:      %s\n", task.Kind.Display())
			_, _ = fmt.Fprintf(w, "Quadrant:  [%d] %s\n", int(task.Quadrant), task.Quadrant.Display())
			if task.Description != "" {
				_, _ = fmt.Fprintf(w, "Notes:     %s\n", task.Description)
			}
			if task.DueDate != nil {
				_, _ = fmt.Fprintf(w, "Due:       %s\n", task.DueDate.Format("2006-01-02"))
			}
			if task.Recurrence != "" {
				_, _ = fmt.Fprintf(w, "Rule:      %s\n", task.Recurrence)
			}
			if task.ParentID != nil {
				_, _ = fmt.Fprintf(w, "Parent:    %s\n", *task.ParentID)
			}
			if task.Completed {
				at := ""
				if task.CompletedAt != nil {
					at = " at " + task.CompletedAt.Format("2006-01-02 15:04")
				}
				_, _ = fmt.Fprintf(w, "Completed: yes%s\n", at)
			}

			children := c.Store.Children(task.ID)
			if len(children) > 0 {
				_, _ = fmt.Fprintln(w, "Subtasks:")
				for _, child := range children {
					_, _ = fmt.Fprintf(w, "  %s %s %s\n", taskMark(child), child.ID, child.Title)
				}
			}
			return nil
		},
	}
	return cmd
}

// newEditCommand creates the edit command for updating task fields.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title     string
		Desc      string
		Due       string
		Rule      string
		AddTags   []string
		RmTags    []string
		AddPeople []string
		RmPeople  []string
		ClearDue  bool
	}

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit task fields",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &opts.Title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &opts.Desc
			}
			if cmd.Flags().Changed("rule") {
				patch.Recurrence = &opts.Rule
			}
			if opts.ClearDue {
				patch.ClearDueDate = true
			} else if opts.Due != "" {
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				patch.DueDate = &due
			}

			var err error
			if patch.AddTags, err = resolveTagIDs(c, opts.AddTags); err != nil {
				return err
			}
			if patch.RemoveTags, err = resolveTagIDs(c, opts.RmTags); err != nil {
				return err
			}
			if patch.AddPeople, err = resolvePersonIDs(c, opts.AddPeople); err != nil {
				return err
			}
			if patch.RemovePeople, err = resolvePersonIDs(c, opts.RmPeople); err != nil {
				return err
			}

			task, err := c.Store.UpdateTask(args[0], patch)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVarP(&opts.Desc, "desc", "d", "", "New description")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVar(&opts.Rule, "rule", "", "New recurrence rule (templates only)")
	cmd.Flags().StringSliceVar(&opts.AddTags, "add-tag", nil, "Attach a tag (repeatable)")
	cmd.Flags().StringSliceVar(&opts.RmTags, "rm-tag", nil, "Detach a tag (repeatable)")
	cmd.Flags().StringSliceVar(&opts.AddPeople, "add-person", nil, "Attach a person (repeatable)")
	cmd.Flags().StringSliceVar(&opts.RmPeople, "rm-person", nil, "Detach a person (repeatable)")

	return cmd
}

// newCompleteCommand creates the complete command for toggling completion.
func newCompleteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complete <id>",
		Aliases: []string{"done"},
		Short:   "Toggle task completion",
		GroupID: groupTask,
		Long: `Toggle a task's completion state.

A task with subtasks cannot be toggled directly: its completion is
derived from its subtasks and follows them automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.Store.ToggleComplete(args[0])
			if err != nil {
				return err
			}
			state := "open"
			if task.Completed {
				state = "completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.ID, state)
			return nil
		},
	}
	return cmd
}

// newStarCommand creates the star command for toggling the star flag.
func newStarCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "star <id>",
		Short:   "Toggle task star",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.Store.ToggleStar(args[0])
			if err != nil {
				return err
			}
			state := "unstarred"
			if task.Starred {
				state = "starred"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.ID, state)
			return nil
		},
	}
	return cmd
}

// newMoveCommand creates the move command for relocating a task between
// quadrants.
func newMoveCommand(c *app.Container) *cobra.Command {
	var pos string

	cmd := &cobra.Command{
		Use:     "move <id> <quadrant>",
		Short:   "Move a task to another quadrant",
		GroupID: groupTask,
		Long: `Move a top-level task to another quadrant. Its subtasks follow.

Examples:
  quadra move t-3 2
  quadra move t-3 delegate --pos 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quadrant, err := parseQuadrant(args[1])
			if err != nil {
				return err
			}
			order, err := parseOrder(pos)
			if err != nil {
				return err
			}
			if err := c.Store.MoveTaskWithSubtasks(args[0], quadrant, order); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to [%d] %s\n", args[0], int(quadrant), quadrant.Display())
			return nil
		},
	}

	cmd.Flags().StringVar(&pos, "pos", "", "Position within the quadrant (default: last)")
	return cmd
}

// newDeleteCommand creates the delete command for removing a task and its
// subtree.
func newDeleteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its subtasks",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Store.DeleteTask(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
