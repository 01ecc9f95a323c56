package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

// Pretty configures glamour output.
type Pretty struct {
	Style string
	Width int
}

// DefaultPretty matches the shipped config defaults.
var DefaultPretty = Pretty{Style: "dracula", Width: 80}

// NewTermRenderer builds a glamour renderer for p. Empty fields use DefaultPretty.
func NewTermRenderer(p Pretty) (*glamour.TermRenderer, error) {
	if p.Style == "" {
		p.Style = DefaultPretty.Style
	}
	if p.Width <= 0 {
		p.Width = DefaultPretty.Width
	}
	styleOpt := glamour.WithStandardStyle(p.Style)
	if p.Style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(p.Width))
}

// RenderPretty renders markdown for the terminal.
func RenderPretty(md string, p Pretty) (string, error) {
	r, err := NewTermRenderer(p)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// WritePrettyNote renders a single note with a small metadata header.
func WritePrettyNote(w io.Writer, n api.Note, p Pretty, now time.Time) error {
	date, clock := util.FormatListDate(n.UpdatedAt, now)
	md := fmt.Sprintf("> **ID:** %s | **Updated:** %s %s\n\n---\n\n%s\n", n.ID, date, clock, strings.TrimSpace(n.Text))
	out, err := RenderPretty(md, p)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyNotes renders the note list as a Markdown table.
func WritePrettyNotes(w io.Writer, notes []api.Note, p Pretty, now time.Time) error {
	var b strings.Builder
	b.WriteString("| Title | Date | Time | ID |\n|---|---|---|---|\n")
	for _, n := range notes {
		date, clock := util.FormatListDate(n.UpdatedAt, now)
		title := strings.ReplaceAll(n.Title(), "|", "\\|")
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", title, date, clock, n.ID)
	}
	out, err := RenderPretty(b.String(), p)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
