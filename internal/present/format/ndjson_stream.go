package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdnote/pkg/api"
)

// NDJSONStreamWriter incrementally writes notes as NDJSON.
type NDJSONStreamWriter struct {
	enc *json.Encoder
}

// NewNDJSONStreamWriter creates a streaming NDJSON writer.
func NewNDJSONStreamWriter(w io.Writer) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: json.NewEncoder(w)}
}

// WriteNotes writes a batch of notes.
func (nw *NDJSONStreamWriter) WriteNotes(notes []api.Note) error {
	for _, n := range notes {
		if err := nw.enc.Encode(n); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter) Close() error { return nil }
