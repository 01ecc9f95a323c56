package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var promptBox = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63"))

// renderOverlay centers a prompt box on the screen in place of the base view.
func (m model) renderOverlay(fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	return lipgloss.Place(termW, termH, lipgloss.Center, lipgloss.Center, promptBox.Render(fg),
		lipgloss.WithWhitespaceChars(" "))
}
