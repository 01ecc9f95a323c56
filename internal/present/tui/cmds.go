package tui

import (
	"context"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/mdnote/internal/editor"
	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/pkg/api"
)

// savedMsg conveys the outcome of notes.Service.Save.
type savedMsg struct {
	text   string // submitted text; the buffer may have moved on
	note   api.Note
	action notes.Action
	err    error
	dur    time.Duration
}

// deleteResultMsg conveys the outcome of a delete operation back to Update.
type deleteResultMsg struct {
	id  string
	err error
	dur time.Duration
}

// exportResultMsg wraps the result of an async export.
type exportResultMsg struct {
	res export.Result
}

// editorClosedMsg is sent by the live-preview editor when it is left.
type editorClosedMsg struct {
	note   api.Note
	action notes.Action
}

// externalEditMsg carries the temp file back from $EDITOR.
type externalEditMsg struct {
	id   string
	path string
	err  error
}

func saveCmd(ctx context.Context, svc *notes.Service, id, text string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		n, act, err := svc.Save(ctx, id, text)
		return savedMsg{text: text, note: n, action: act, err: err, dur: time.Since(start)}
	}
}

func deleteCmd(ctx context.Context, svc *notes.Service, id string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := svc.Delete(ctx, id)
		return deleteResultMsg{id: id, err: err, dur: time.Since(start)}
	}
}

func exportCmd(ctx context.Context, exp *export.Exporter, req export.Request) tea.Cmd {
	ch := exp.ExportAsync(ctx, req)
	return func() tea.Msg {
		return exportResultMsg{res: <-ch}
	}
}

// externalEditCmd suspends the program and runs $EDITOR on the note.
func externalEditCmd(n api.Note) tea.Cmd {
	path, err := editor.PathForID(n.ID)
	if err != nil {
		return func() tea.Msg { return externalEditMsg{id: n.ID, err: err} }
	}
	if err := editor.PrepareAt(path, []byte(n.Text)); err != nil {
		return func() tea.Msg { return externalEditMsg{id: n.ID, err: err} }
	}
	var c *exec.Cmd
	if c, err = editor.Command(path); err != nil {
		return func() tea.Msg { return externalEditMsg{id: n.ID, err: err} }
	}
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return externalEditMsg{id: n.ID, path: path, err: err}
	})
}

func closeEditorCmd(n api.Note, act notes.Action) tea.Cmd {
	return func() tea.Msg { return editorClosedMsg{note: n, action: act} }
}
