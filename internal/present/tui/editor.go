package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/present/format"
	"github.com/mithrel/mdnote/pkg/api"
)

type editorKeys struct {
	Save       key.Binding
	CycleMode  key.Binding
	ToggleHTML key.Binding
	Back       key.Binding
}

var defaultEditorKeys = editorKeys{
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	CycleMode:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
	ToggleHTML: key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "html")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// editorModel is the live-preview editor: a text area and a preview pane
// that is re-rendered on every change.
type editorModel struct {
	ctx  context.Context
	deps Deps
	keys editorKeys

	note   api.Note
	saved  string
	action notes.Action

	area     textarea.Model
	preview  viewport.Model
	mode     ScreenMode
	showHTML bool

	term      *glamour.TermRenderer
	termWidth int

	confirmDiscard bool
	standalone     bool
	status         string
	width, height  int
}

func newEditorModel(ctx context.Context, deps Deps, n api.Note) *editorModel {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Placeholder = "Write Markdown…"
	ta.SetValue(n.Text)
	ta.Focus()

	m := &editorModel{
		ctx:     ctx,
		deps:    deps,
		keys:    defaultEditorKeys,
		note:    n,
		saved:   n.Text,
		area:    ta,
		preview: viewport.New(40, 10),
		mode:    ScreenSeparate,
	}
	m.layout(80, 24)
	return m
}

func (m *editorModel) dirty() bool { return m.area.Value() != m.saved }

func (m *editorModel) Init() tea.Cmd { return textarea.Blink }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil
	case savedMsg:
		return m.onSaved(msg)
	case editorClosedMsg:
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Back) {
			m.confirmDiscard = false
		}
		switch {
		case key.Matches(msg, m.keys.Save):
			m.status = "Saving…"
			return m, saveCmd(m.ctx, m.deps.Notes, m.note.ID, m.area.Value())
		case key.Matches(msg, m.keys.CycleMode):
			m.mode = m.mode.Next()
			m.layout(m.width, m.height)
			return m, nil
		case key.Matches(msg, m.keys.ToggleHTML):
			m.showHTML = !m.showHTML
			m.refreshPreview()
			return m, nil
		case key.Matches(msg, m.keys.Back):
			if m.dirty() && !m.confirmDiscard {
				m.confirmDiscard = true
				m.status = "Unsaved changes: esc again to discard, ctrl+s to save"
				return m, nil
			}
			return m, closeEditorCmd(m.note, m.action)
		}
		if m.mode == ScreenView {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}

	before := m.area.Value()
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if m.area.Value() != before {
		m.refreshPreview()
	}
	return m, cmd
}

func (m *editorModel) onSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Save failed: %v", msg.err)
		m.deps.logger().Error("save failed", "id", m.note.ID, "err", msg.err)
		return m, nil
	}
	if msg.action != notes.ActionNone {
		m.action = msg.action
	}
	switch msg.action {
	case notes.ActionDeleted:
		m.status = "Deleted empty note"
		m.saved = msg.text
		return m, closeEditorCmd(msg.note, msg.action)
	case notes.ActionNone:
		m.status = "Nothing to save"
	default:
		m.note = msg.note
		m.status = fmt.Sprintf("Saved (%s)", msg.dur.Round(time.Millisecond))
	}
	m.saved = msg.text
	return m, nil
}

// layout sizes the panes for the current screen mode.
func (m *editorModel) layout(w, h int) {
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	m.width, m.height = w, h
	bodyH := clamp(h-2, 3, h)
	switch m.mode {
	case ScreenEdit:
		m.area.SetWidth(w)
		m.area.SetHeight(bodyH)
	case ScreenView:
		m.preview.Width = w
		m.preview.Height = bodyH
	default:
		left := w / 2
		m.area.SetWidth(left)
		m.area.SetHeight(bodyH)
		m.preview.Width = w - left - 1
		m.preview.Height = bodyH
	}
	m.refreshPreview()
}

func (m *editorModel) refreshPreview() {
	if !m.mode.showsPreview() {
		return
	}
	text := m.area.Value()
	if m.showHTML {
		m.preview.SetContent(m.deps.Renderer.Render(text))
		return
	}
	m.preview.SetContent(m.renderPretty(text))
}

func (m *editorModel) renderPretty(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	width := clamp(m.preview.Width-2, 10, 1<<16)
	if m.term == nil || m.termWidth != width {
		p := m.deps.Pretty
		p.Width = width
		r, err := format.NewTermRenderer(p)
		if err != nil {
			return text
		}
		m.term, m.termWidth = r, width
	}
	out, err := m.term.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (m *editorModel) header() string {
	title := m.note.Title()
	if m.note.ID == "" {
		title = "New note"
	}
	if title == "" {
		title = "(untitled)"
	}
	mark := ""
	if m.dirty() {
		mark = " *"
	}
	view := "preview"
	if m.showHTML {
		view = "html"
	}
	return lipgloss.NewStyle().Bold(true).Render(title+mark) +
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("  [%s · %s]", m.mode, view))
}

func (m *editorModel) footer() string {
	help := "ctrl+s=save • tab=mode • ctrl+h=html • esc=back"
	if m.status == "" {
		return lipgloss.NewStyle().Faint(true).Render(help)
	}
	return m.status + "  " + lipgloss.NewStyle().Faint(true).Render(help)
}

func (m *editorModel) View() string {
	var body string
	switch m.mode {
	case ScreenEdit:
		body = m.area.View()
	case ScreenView:
		body = m.preview.View()
	default:
		sep := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(strings.TrimSuffix(strings.Repeat("│\n", m.preview.Height), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.area.View(), sep, m.preview.View())
	}
	return m.header() + "\n" + body + "\n" + m.footer()
}
