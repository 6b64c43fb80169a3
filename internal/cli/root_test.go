package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/domain"
)

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	cfg := domain.NewDefaultConfig()
	cfg.Store.DataDir = t.TempDir()
	cfg.History.RecordDebounce = 5 * time.Millisecond
	cfg.History.SaveDebounce = 5 * time.Millisecond

	c, err := app.NewWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func execute(t *testing.T, c *app.Container, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(c, "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAddAndListCommands(t *testing.T) {
	c := newTestContainer(t)

	out, err := execute(t, c, "add", "Fix login bug", "-q", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task t-1")

	out, err = execute(t, c, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix login bug")
	assert.Contains(t, out, "Urgent & Important")
}

func TestAddCommand_RequiresQuadrant(t *testing.T) {
	c := newTestContainer(t)

	_, err := execute(t, c, "add", "No quadrant")
	assert.Error(t, err)
}

func TestSubtaskAndCompleteCommands(t *testing.T) {
	c := newTestContainer(t)

	_, err := execute(t, c, "add", "Report", "-q", "2")
	require.NoError(t, err)
	out, err := execute(t, c, "subtask", "add", "t-1", "Collect data")
	require.NoError(t, err)
	assert.Contains(t, out, "Created subtask t-2")

	// Completing the only subtask auto-completes the parent.
	_, err = execute(t, c, "complete", "t-2")
	require.NoError(t, err)

	task, err := c.Store.Task("t-1")
	require.NoError(t, err)
	assert.True(t, task.Completed)

	// The parent itself cannot be toggled.
	_, err = execute(t, c, "subtask", "add", "t-1", "Another")
	require.NoError(t, err)
	_, err = execute(t, c, "complete", "t-1")
	assert.ErrorIs(t, err, domain.ErrHasChildren)
}

func TestMoveCommand(t *testing.T) {
	c := newTestContainer(t)

	_, err := execute(t, c, "add", "Task", "-q", "do")
	require.NoError(t, err)
	_, err = execute(t, c, "move", "t-1", "eliminate")
	require.NoError(t, err)

	task, err := c.Store.Task("t-1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuadrantNotUrgentNotImportant, task.Quadrant)
}

func TestTagCommands(t *testing.T) {
	c := newTestContainer(t)

	out, err := execute(t, c, "tag", "add", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Created tag work")

	// Tags can be referenced by name.
	_, err = execute(t, c, "add", "Tagged", "-q", "1", "--tag", "work")
	require.NoError(t, err)
	task, err := c.Store.Task("t-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1"}, task.TagIDs)

	out, err = execute(t, c, "tag", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "work")

	_, err = execute(t, c, "add", "Bad", "-q", "1", "--tag", "nope")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestUndoCommand(t *testing.T) {
	c := newTestContainer(t)

	_, err := execute(t, c, "add", "Task", "-q", "1")
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	_, err = execute(t, c, "undo")
	require.NoError(t, err)
	assert.Empty(t, c.Store.Tasks())

	_, err = execute(t, c, "redo")
	require.NoError(t, err)
	assert.Len(t, c.Store.Tasks(), 1)

	_, err = execute(t, c, "redo")
	assert.ErrorIs(t, err, domain.ErrNothingToRedo)
}

func TestGenCommand(t *testing.T) {
	c := newTestContainer(t)

	_, err := execute(t, c, "add", "Standup", "-q", "2", "--template", "--rule", "daily")
	require.NoError(t, err)

	out, err := execute(t, c, "gen")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 instance(s)")

	// Templates stay paused after template pause.
	_, err = execute(t, c, "template", "pause", "t-1")
	require.NoError(t, err)
	task, err := c.Store.Task("t-1")
	require.NoError(t, err)
	assert.True(t, task.Paused)
}

func TestRootCommand_LaunchesBoardByDefault(t *testing.T) {
	c := newTestContainer(t)

	launched := false
	orig := launchBoardFunc
	launchBoardFunc = func(*app.Container) error {
		launched = true
		return nil
	}
	defer func() { launchBoardFunc = orig }()

	_, err := execute(t, c)
	require.NoError(t, err)
	assert.True(t, launched)
}
