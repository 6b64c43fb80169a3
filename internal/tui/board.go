// Package tui provides the interactive quadrant board.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/filter"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// Model is the quadrant board TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	container *app.Container

	// State
	visible []*domain.Task
	cfg     domain.FilterConfig
	status  string
	err     error

	// Components
	keys        KeyMap
	styles      Styles
	searchInput textinput.Model

	// Numeric state
	cursor int
	width  int
	height int
	mode   Mode
}

// New creates a new board model wired to the container.
func New(c *app.Container) *Model {
	si := textinput.New()
	si.Placeholder = "Search..."
	si.CharLimit = 200

	m := &Model{
		container: c,
		cfg: domain.FilterConfig{
			View:            domain.ViewAll,
			TodayWindowDays: c.Config.View.TodayWindowDays,
		},
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		searchInput: si,
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// refresh recomputes the visible task list from the store.
func (m *Model) refresh() {
	c := m.container
	m.visible = filter.Resolve(c.Store.Tasks(), c.Store.Tags(), c.Store.People(), m.cfg, c.Clock.Now())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the task under the cursor, or nil.
func (m *Model) selected() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor]
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeSearch {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// updateSearch handles key input while the search prompt is active.
func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.cfg.Query = m.searchInput.Value()
		m.mode = ModeNormal
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.searchInput.SetValue("")
		m.cfg.Query = ""
		m.mode = ModeNormal
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// updateNormal handles key input in normal mode.
func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Complete):
		if t := m.selected(); t != nil {
			if _, err := m.container.Store.ToggleComplete(t.ID); err != nil {
				m.err = err
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Star):
		if t := m.selected(); t != nil {
			if _, err := m.container.Store.ToggleStar(t.ID); err != nil {
				m.err = err
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if t := m.selected(); t != nil {
			if err := m.container.Store.DeleteTask(t.ID); err != nil {
				m.err = err
			} else {
				m.status = "Deleted " + t.ID
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.Undo):
		if err := m.container.History.Undo(); err != nil {
			if !errors.Is(err, domain.ErrNothingToUndo) {
				m.err = err
			}
		} else {
			m.status = "Undone"
		}
		m.refresh()

	case key.Matches(msg, m.keys.Redo):
		if err := m.container.History.Redo(); err != nil {
			if !errors.Is(err, domain.ErrNothingToRedo) {
				m.err = err
			}
		} else {
			m.status = "Redone"
		}
		m.refresh()

	case key.Matches(msg, m.keys.Generate):
		n, err := m.container.Scheduler.GenerateDue()
		if err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("Generated %d instance(s)", n)
		}
		m.refresh()

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.View):
		m.cycleView()
		m.refresh()
	}
	return m, nil
}

// cycleView rotates all -> today -> completed -> all.
func (m *Model) cycleView() {
	switch m.cfg.View {
	case domain.ViewAll:
		m.cfg.View = domain.ViewToday
		m.cfg.ShowCompleted = false
	case domain.ViewToday:
		m.cfg.View = domain.ViewCompleted
		m.cfg.ShowCompleted = true
	default:
		m.cfg.View = domain.ViewAll
		m.cfg.ShowCompleted = false
	}
}

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder

	panes := make([]string, 0, len(domain.AllQuadrants()))
	paneWidth := m.width/2 - 4
	if paneWidth < 20 {
		paneWidth = 20
	}
	for _, q := range domain.AllQuadrants() {
		panes = append(panes, m.renderQuadrant(q, paneWidth))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, panes[0], panes[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, panes[2], panes[3])
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
	b.WriteString("\n")

	if m.mode == ModeSearch {
		b.WriteString("/" + m.searchInput.View())
	} else {
		b.WriteString(m.statusLine())
	}
	return b.String()
}

// renderQuadrant renders one quadrant pane.
func (m *Model) renderQuadrant(q domain.Quadrant, width int) string {
	var lines []string
	lines = append(lines, m.styles.PaneTitle.Render(q.Display()))

	now := m.container.Clock.Now()
	for i, t := range m.visible {
		if t.Quadrant != q {
			continue
		}
		line := m.renderTask(t, now)
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	return m.styles.Pane.Width(width).Render(strings.Join(lines, "\n"))
}

// renderTask renders one task row.
func (m *Model) renderTask(t *domain.Task, now time.Time) string {
	indent := ""
	if !t.IsTopLevel() {
		indent = "  "
	}

	mark := "[ ]"
	style := m.styles.Normal
	switch {
	case t.Kind == domain.KindRecurringTemplate:
		mark = "(~)"
		style = m.styles.Template
	case t.Completed:
		mark = "[x]"
		style = m.styles.Done
	case t.IsOverdue(now):
		style = m.styles.Overdue
	}

	star := ""
	if t.Starred {
		star = m.styles.Star.Render("*")
	}
	return indent + mark + star + " " + style.Render(t.Title)
}

// statusLine renders the footer.
func (m *Model) statusLine() string {
	if m.err != nil {
		return m.styles.Status.Render("Error: " + m.err.Error())
	}
	parts := []string{string(m.cfg.View)}
	if m.cfg.Query != "" {
		parts = append(parts, "query: "+m.cfg.Query)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	left := m.styles.Status.Render(strings.Join(parts, " | "))
	help := m.styles.Help.Render("j/k move · space done · s star · u undo · r redo · g gen · / search · tab view · q quit")
	return left + "\n" + help
}
