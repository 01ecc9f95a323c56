package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterBar is the "/" search line under the table. The list is filtered
// live while typing.
type filterBar struct {
	input  textinput.Model
	active bool
}

func newFilterBar() filterBar {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter notes"
	return filterBar{input: ti}
}

func (f *filterBar) open() tea.Cmd {
	f.active = true
	return f.input.Focus()
}

func (f *filterBar) close(clear bool) {
	f.active = false
	f.input.Blur()
	if clear {
		f.input.SetValue("")
	}
}

func (f *filterBar) value() string { return f.input.Value() }

func (f *filterBar) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *filterBar) View() string {
	if !f.active && f.value() == "" {
		return ""
	}
	return f.input.View()
}
