package cli

import (
	"context"

	"github.com/mithrel/mdnote/internal/present"
	"github.com/mithrel/mdnote/pkg/api"
)

const defaultPageSize = 200

// fetchPage loads one page of notes starting at cursor.
type fetchPage func(ctx context.Context, cursor string, limit int) ([]api.Note, api.Page, error)

// streamNotes pages through fetch and hands each batch to w. A positive
// limit caps the total number of notes written.
func streamNotes(ctx context.Context, fetch fetchPage, pageSize, limit int, w present.NoteStreamWriter) error {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	written := 0
	cursor := ""
	for {
		size := pageSize
		if limit > 0 && limit-written < size {
			size = limit - written
		}
		batch, page, err := fetch(ctx, cursor, size)
		if err != nil {
			_ = w.Close()
			return err
		}
		if err := w.WriteNotes(batch); err != nil {
			_ = w.Close()
			return err
		}
		written += len(batch)
		if len(batch) == 0 || page.Next == "" || page.Next == cursor {
			break
		}
		if limit > 0 && written >= limit {
			break
		}
		cursor = page.Next
	}
	return w.Close()
}

// fetchAllNotes collects every page from fetch.
func fetchAllNotes(ctx context.Context, fetch fetchPage, pageSize int) ([]api.Note, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	out := make([]api.Note, 0, pageSize)
	cursor := ""
	for {
		batch, page, err := fetch(ctx, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) == 0 || page.Next == "" || page.Next == cursor {
			break
		}
		cursor = page.Next
	}
	return out, nil
}
