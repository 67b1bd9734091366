package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"dashlint/internal/driver"
)

// Run shows progress on out until events is closed. The caller closes events
// once the check finishes.
func Run(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := program.Run()
	return err
}
