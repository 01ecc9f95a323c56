package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

// TSV columns: id, title, date, time
var headerLine = "id\ttitle\tdate\ttime\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func plainLine(n api.Note, now time.Time) string {
	date, clock := util.FormatListDate(n.UpdatedAt, now)
	return fmt.Sprintf("%s\t%s\t%s\t%s\n", esc(n.ID), esc(n.Title()), date, clock)
}

// WritePlainNotes writes one TSV row per note. Dates are relative to now.
func WritePlainNotes(w io.Writer, notes []api.Note, headers bool, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, n := range notes {
		_, _ = io.WriteString(tw, plainLine(n, now))
	}
	return tw.Flush()
}

// WritePlainNote writes the raw note text.
func WritePlainNote(w io.Writer, n api.Note) error {
	text := n.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
