// Package cli provides the command-line interface for quadra.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/domain"
)

// Command group IDs.
const (
	groupTask    = "task"
	groupLabel   = "label"
	groupHistory = "history"
)

// NewRootCommand creates the root command for quadra.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "quadra",
		Short: "Priority-quadrant task management CLI",
		Long: `quadra organizes tasks on a four-quadrant priority board
(urgent/important on each axis). Tasks can hold one level of subtasks
whose completion propagates to the parent, recurring templates generate
dated instances, and every change can be undone.

Run without arguments to open the interactive board.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchBoardFunc(c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupLabel, Title: "Label Commands:"},
		&cobra.Group{ID: groupHistory, Title: "History Commands:"},
	)

	root.AddCommand(
		newAddCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newCompleteCommand(c),
		newStarCommand(c),
		newMoveCommand(c),
		newDeleteCommand(c),
		newSubtaskCommand(c),
		newTemplateCommand(c),
		newGenCommand(c),
		newTagCommand(c),
		newPersonCommand(c),
		newUndoCommand(c),
		newRedoCommand(c),
		newLogCommand(c),
		newTUICommand(c),
	)

	return root
}

// parseQuadrant accepts a quadrant number (1-4) or a shorthand name.
func parseQuadrant(s string) (domain.Quadrant, error) {
	switch strings.ToLower(s) {
	case "1", "do", "urgent-important":
		return domain.QuadrantUrgentImportant, nil
	case "2", "schedule", "not-urgent-important":
		return domain.QuadrantNotUrgentImportant, nil
	case "3", "delegate", "urgent-not-important":
		return domain.QuadrantUrgentNotImportant, nil
	case "4", "eliminate", "not-urgent-not-important":
		return domain.QuadrantNotUrgentNotImportant, nil
	}
	return 0, fmt.Errorf("invalid quadrant %q (expected 1-4, do, schedule, delegate, or eliminate): %w", s, domain.ErrInvalidQuadrant)
}

// parseDate parses a YYYY-MM-DD date in local time.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// resolveTagIDs maps tag names or ids given on the command line to tag ids.
func resolveTagIDs(c *app.Container, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	tags := c.Store.Tags()
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ""
		for _, tag := range tags {
			if tag.ID == ref || strings.EqualFold(tag.Name, ref) {
				id = tag.ID
				break
			}
		}
		if id == "" {
			return nil, fmt.Errorf("tag %q: %w", ref, domain.ErrTagNotFound)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolvePersonIDs maps person names or ids given on the command line to
// person ids.
func resolvePersonIDs(c *app.Container, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	people := c.Store.People()
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ""
		for _, p := range people {
			if p.ID == ref || strings.EqualFold(p.Name, ref) {
				id = p.ID
				break
			}
		}
		if id == "" {
			return nil, fmt.Errorf("person %q: %w", ref, domain.ErrPersonNotFound)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseOrder parses an explicit position argument, defaulting to the end.
func parseOrder(s string) (int, error) {
	if s == "" {
		return int(^uint(0) >> 1), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return n, nil
}
