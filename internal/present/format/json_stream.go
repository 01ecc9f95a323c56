package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdnote/pkg/api"
)

// JSONStreamWriter incrementally writes notes as a JSON array.
type JSONStreamWriter struct {
	w        io.Writer
	indent   bool
	wroteAny bool
}

// NewJSONStreamWriter creates a streaming JSON writer.
func NewJSONStreamWriter(w io.Writer, indent bool) *JSONStreamWriter {
	return &JSONStreamWriter{w: w, indent: indent}
}

// WriteNotes writes a batch of notes.
func (jw *JSONStreamWriter) WriteNotes(notes []api.Note) error {
	for _, n := range notes {
		var (
			b   []byte
			err error
		)
		if jw.indent {
			b, err = json.MarshalIndent(n, "  ", "  ")
		} else {
			b, err = json.Marshal(n)
		}
		if err != nil {
			return err
		}
		sep := "["
		switch {
		case !jw.wroteAny && jw.indent:
			sep = "[\n  "
		case jw.wroteAny && jw.indent:
			sep = ",\n  "
		case jw.wroteAny:
			sep = ","
		}
		if _, err := io.WriteString(jw.w, sep); err != nil {
			return err
		}
		if _, err := jw.w.Write(b); err != nil {
			return err
		}
		jw.wroteAny = true
	}
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter) Close() error {
	if !jw.wroteAny {
		_, err := io.WriteString(jw.w, "[]\n")
		return err
	}
	if jw.indent {
		_, err := io.WriteString(jw.w, "\n]\n")
		return err
	}
	_, err := io.WriteString(jw.w, "]\n")
	return err
}
