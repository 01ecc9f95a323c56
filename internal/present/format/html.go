package format

import (
	"io"
	"strings"

	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

// WriteHTMLNote renders the note body to HTML. Standalone wraps the
// fragment in a full page titled after the note.
func WriteHTMLNote(w io.Writer, r *render.Renderer, n api.Note, standalone bool) error {
	out := r.Render(n.Text)
	if standalone {
		out = render.Page(n.Title(), out)
	}
	_, err := io.WriteString(w, out)
	return err
}

// WriteHTMLNotes renders every note, separated by a horizontal rule.
func WriteHTMLNotes(w io.Writer, r *render.Renderer, notes []api.Note, standalone bool) error {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, r.Render(n.Text))
	}
	out := strings.Join(parts, "<hr />\n")
	if standalone {
		out = render.Page("Notes", out)
	}
	_, err := io.WriteString(w, out)
	return err
}
