package tui

import "github.com/charmbracelet/lipgloss"

// Colors used in the board TUI.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
	ColorDone    = lipgloss.Color("#10B981") // Green
	ColorOverdue = lipgloss.Color("#EF4444") // Red
	ColorStar    = lipgloss.Color("#F59E0B") // Amber
)

// Styles holds the styles for the board TUI.
type Styles struct {
	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Done      lipgloss.Style
	Overdue   lipgloss.Style
	Star      lipgloss.Style
	Template  lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary),
		Normal: lipgloss.NewStyle(),
		Done: lipgloss.NewStyle().
			Foreground(ColorDone).
			Strikethrough(true),
		Overdue: lipgloss.NewStyle().
			Foreground(ColorOverdue),
		Star: lipgloss.NewStyle().
			Foreground(ColorStar),
		Template: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
		Status: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}
