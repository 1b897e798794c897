package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI application and blocks until it exits
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	m.Cleanup()
	return err
}
