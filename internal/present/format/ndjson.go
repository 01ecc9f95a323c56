package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdnote/pkg/api"
)

// WriteNDJSONNotes writes notes as newline-delimited JSON objects.
func WriteNDJSONNotes(w io.Writer, notes []api.Note) error {
	enc := json.NewEncoder(w)
	for _, n := range notes {
		if err := enc.Encode(n); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONNote writes a single note as one JSON line.
func WriteNDJSONNote(w io.Writer, n api.Note) error {
	return json.NewEncoder(w).Encode(n)
}
