package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/engine"
)

func newTestModel(t *testing.T) (*Model, *app.Container) {
	t.Helper()
	cfg := domain.NewDefaultConfig()
	cfg.Store.DataDir = t.TempDir()
	cfg.History.RecordDebounce = 5 * time.Millisecond

	c, err := app.NewWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return New(c), c
}

func keyMsg(s string) tea.KeyMsg {
	if s == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoard_ShowsTasksByQuadrant(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Store.AddTask(engine.AddTaskInput{Title: "urgent thing", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	m.refresh()

	view := m.View()
	assert.Contains(t, view, "urgent thing")
	assert.Contains(t, view, domain.QuadrantUrgentImportant.Display())
}

func TestBoard_ToggleCompleteUnderCursor(t *testing.T) {
	m, c := newTestModel(t)
	task, err := c.Store.AddTask(engine.AddTaskInput{Title: "x", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	m.refresh()

	_, _ = m.Update(keyMsg("space"))

	got, err := c.Store.Task(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestBoard_CursorNavigation(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Store.AddTask(engine.AddTaskInput{Title: "a", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	second, err := c.Store.AddTask(engine.AddTaskInput{Title: "b", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	m.refresh()

	_, _ = m.Update(keyMsg("j"))
	require.NotNil(t, m.selected())
	assert.Equal(t, second.ID, m.selected().ID)

	// Cursor clamps at the ends.
	_, _ = m.Update(keyMsg("j"))
	assert.Equal(t, second.ID, m.selected().ID)
	_, _ = m.Update(keyMsg("k"))
	_, _ = m.Update(keyMsg("k"))
	assert.Equal(t, "a", m.selected().Title)
}

func TestBoard_UndoKey(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Store.AddTask(engine.AddTaskInput{Title: "x", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	m.refresh()

	_, _ = m.Update(keyMsg("u"))
	assert.Empty(t, c.Store.Tasks())
	assert.Empty(t, m.visible)

	_, _ = m.Update(keyMsg("r"))
	assert.Len(t, c.Store.Tasks(), 1)
}

func TestBoard_SearchFilters(t *testing.T) {
	m, c := newTestModel(t)
	_, err := c.Store.AddTask(engine.AddTaskInput{Title: "alpha", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	_, err = c.Store.AddTask(engine.AddTaskInput{Title: "beta", Quadrant: domain.QuadrantUrgentImportant})
	require.NoError(t, err)
	m.refresh()

	_, _ = m.Update(keyMsg("/"))
	require.Equal(t, ModeSearch, m.mode)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("beta")})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, ModeNormal, m.mode)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "beta", m.visible[0].Title)

	// Esc clears the query.
	_, _ = m.Update(keyMsg("/"))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.visible, 2)
}

func TestBoard_CycleView(t *testing.T) {
	m, _ := newTestModel(t)

	require.Equal(t, domain.ViewAll, m.cfg.View)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ViewToday, m.cfg.View)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ViewCompleted, m.cfg.View)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ViewAll, m.cfg.View)
}
