package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mdnote/internal/editor"
	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

type prompt int

const (
	promptNone prompt = iota
	promptDelete
	promptExport
)

// RunBrowser opens an interactive table of notes.
func RunBrowser(ctx context.Context, deps Deps, list []api.Note, headers bool) error {
	m := newModel(ctx, deps, list, headers)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// RunEditor opens the live-preview editor on n (an empty ID starts a new
// note) and returns the last saved state.
func RunEditor(ctx context.Context, deps Deps, n api.Note) (api.Note, notes.Action, error) {
	em := newEditorModel(ctx, deps, n)
	em.standalone = true
	p := tea.NewProgram(em, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return n, notes.ActionNone, err
	}
	fm := final.(*editorModel)
	return fm.note, fm.action, nil
}

type model struct {
	ctx  context.Context
	deps Deps

	table   table.Model
	all     []api.Note
	notes   []api.Note
	filter  filterBar
	prompt  prompt
	format  export.Format
	editor  *editorModel
	headers bool

	width        int
	height       int
	status       string
	lastDuration time.Duration
}

func newModel(ctx context.Context, deps Deps, list []api.Note, headers bool) model {
	m := model{
		ctx:     ctx,
		deps:    deps,
		all:     list,
		notes:   list,
		filter:  newFilterBar(),
		format:  deps.ExportFormat,
		headers: headers,
	}
	m.initTable()
	return m
}

func (m *model) initTable() {
	cols := m.columnsFor(m.headers, 40, 16, 5, 12)
	m.table = table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(20))
	m.updateRows()
	m.applyStyles()
}

func (m *model) updateRows() {
	now := m.deps.now()
	rows := make([]table.Row, 0, len(m.notes))
	for _, n := range m.notes {
		date, clock := util.FormatListDate(n.UpdatedAt, now)
		title := n.Title()
		if title == "" {
			title = "(untitled)"
		}
		rows = append(rows, table.Row{title, date, clock, n.ID})
	}
	m.table.SetRows(rows)
	if len(m.notes) > 0 {
		m.table.SetCursor(clamp(m.table.Cursor(), 0, len(m.notes)-1))
	}
}

// applyFilter narrows the list by substring, falling back to fuzzy title
// matching when nothing contains the query.
func (m *model) applyFilter() {
	q := m.filter.value()
	m.notes = notes.Filter(m.all, q)
	if len(m.notes) == 0 && q != "" {
		m.notes = notes.Rank(m.all, q)
	}
	m.updateRows()
}

func (m *model) selected() (api.Note, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.notes) {
		return api.Note{}, false
	}
	return m.notes[idx], true
}

// upsert moves a saved note to the top, as it is now the newest.
func (m *model) upsert(n api.Note) {
	out := make([]api.Note, 0, len(m.all)+1)
	out = append(out, n)
	for _, cur := range m.all {
		if cur.ID != n.ID {
			out = append(out, cur)
		}
	}
	m.all = out
	m.applyFilter()
	m.table.SetCursor(0)
}

func (m *model) remove(id string) {
	out := m.all[:0:0]
	for _, cur := range m.all {
		if cur.ID != id {
			out = append(out, cur)
		}
	}
	m.all = out
	m.applyFilter()
}

func (m *model) applyChange(n api.Note, act notes.Action) {
	switch act {
	case notes.ActionCreated, notes.ActionUpdated:
		m.upsert(n)
		m.status = fmt.Sprintf("Saved %s (%s)", n.ID, act)
	case notes.ActionDeleted:
		m.remove(n.ID)
		m.status = fmt.Sprintf("Deleted %s", n.ID)
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editor != nil {
		return m.updateEditor(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		m.updateRows()
		return m, nil
	case savedMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		if msg.action == notes.ActionNone {
			m.status = "No changes"
			return m, nil
		}
		m.applyChange(msg.note, msg.action)
		return m, nil
	case externalEditMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Edit failed: %v", msg.err)
			return m, nil
		}
		text, err := editor.ReadBack(msg.path)
		if err != nil {
			m.status = fmt.Sprintf("Edit failed: %v", err)
			return m, nil
		}
		return m, saveCmd(m.ctx, m.deps.Notes, msg.id, text)
	case deleteResultMsg:
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			return m, nil
		}
		m.remove(msg.id)
		m.status = fmt.Sprintf("Deleted %s", msg.id)
		return m, nil
	case exportResultMsg:
		if msg.res.Err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.res.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("Exported %s", msg.res.Path)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorClosedMsg:
		m.editor = nil
		m.applyChange(msg.note, msg.action)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
	}
	_, cmd := m.editor.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.active {
		switch msg.String() {
		case "enter":
			m.filter.close(false)
		case "esc":
			m.filter.close(true)
			m.applyFilter()
		default:
			cmd := m.filter.update(msg)
			m.applyFilter()
			return m, cmd
		}
		return m, nil
	}

	switch m.prompt {
	case promptDelete:
		m.prompt = promptNone
		if n, ok := m.selected(); ok && msg.String() == "y" {
			m.status = fmt.Sprintf("Deleting %s…", n.ID)
			return m, deleteCmd(m.ctx, m.deps.Notes, n.ID)
		}
		m.status = "Delete cancelled"
		return m, nil
	case promptExport:
		switch msg.String() {
		case "tab", "x", "right", "l":
			m.format = m.format.Next()
		case "enter":
			m.prompt = promptNone
			if n, ok := m.selected(); ok {
				m.status = "Exporting…"
				return m, exportCmd(m.ctx, m.deps.Exporter, export.Request{Text: n.Text, Format: m.format})
			}
		case "esc", "q":
			m.prompt = promptNone
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.filter.value() != "" {
			m.filter.close(true)
			m.applyFilter()
			return m, nil
		}
		return m, tea.Quit
	case "/":
		return m, m.filter.open()
	case "enter":
		if n, ok := m.selected(); ok {
			return m.openEditor(n)
		}
		return m, nil
	case "n":
		return m.openEditor(api.Note{})
	case "e":
		if n, ok := m.selected(); ok {
			return m, externalEditCmd(n)
		}
		return m, nil
	case "d":
		if _, ok := m.selected(); ok {
			m.prompt = promptDelete
		}
		return m, nil
	case "x":
		if _, ok := m.selected(); ok {
			m.prompt = promptExport
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) openEditor(n api.Note) (tea.Model, tea.Cmd) {
	m.editor = newEditorModel(m.ctx, m.deps, n)
	if m.width > 0 {
		m.editor.layout(m.width, m.height)
	}
	return m, m.editor.Init()
}

func (m model) renderFooter() string {
	left := "↑/↓ navigate • enter=edit • n=new • e=$EDITOR • d=delete • x=export • /=filter • q=quit"

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d notes ", len(m.notes))

	width := m.table.Width()
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) promptView() string {
	n, _ := m.selected()
	switch m.prompt {
	case promptDelete:
		return fmt.Sprintf("Delete %q?\n\ny = delete • any other key = cancel", n.Title())
	case promptExport:
		var opts []string
		for _, f := range export.Formats() {
			label := f.String()
			if f == m.format {
				label = lipgloss.NewStyle().Bold(true).Reverse(true).Render(" " + label + " ")
			} else {
				label = " " + label + " "
			}
			opts = append(opts, label)
		}
		return fmt.Sprintf("Export %q as\n\n%s\n\n%s\n\ntab = next format • enter = export • esc = cancel",
			n.Title(), strings.Join(opts, " "), m.deps.Exporter.SuggestName(m.format))
	}
	return ""
}

func (m model) View() string {
	if m.editor != nil {
		return m.editor.View()
	}
	if m.prompt != promptNone {
		return m.renderOverlay(m.promptView())
	}
	if len(m.all) == 0 {
		return "(no notes) n=new • q=quit\n"
	}
	view := m.table.View() + "\n"
	if f := m.filter.View(); f != "" {
		view += f + "\n"
	}
	return view + m.renderFooter() + "\n"
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(4, m.height-2))
	m.table.SetWidth(m.width)
	avail := m.width - 8
	if avail < 40 {
		return
	}
	dateW, timeW := 16, 5
	idW := 36
	if avail < idW+dateW+timeW+30 {
		idW = 8
	}
	titleW := max(10, avail-idW-dateW-timeW)
	m.table.SetColumns(m.columnsFor(m.headers, titleW, dateW, timeW, idW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on headers flag.
func (m *model) columnsFor(headers bool, titleW, dateW, timeW, idW int) []table.Column {
	titles := []string{"Title", "Date", "Time", "ID"}
	if !headers {
		titles = []string{"", "", "", ""}
	}
	return []table.Column{
		{Title: titles[0], Width: titleW},
		{Title: titles[1], Width: dateW},
		{Title: titles[2], Width: timeW},
		{Title: titles[3], Width: idW},
	}
}
