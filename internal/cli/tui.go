package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ryoseto/quadra/internal/app"
	"github.com/ryoseto/quadra/internal/tui"
)

// launchBoardFunc is a function variable for launching the board TUI,
// allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// newTUICommand creates the tui command for launching the interactive board.
func newTUICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive board",
		Long:  `Launch the interactive terminal board (same as running quadra without arguments).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchBoardFunc(c)
		},
	}
	return cmd
}

// launchBoard runs the board TUI until the user quits.
func launchBoard(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
