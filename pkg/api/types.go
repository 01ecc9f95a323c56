package api

import (
	"strings"
	"time"
)

// Note is a stored Markdown note.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Version is bumped on every update and guards concurrent edits.
	Version int64 `json:"version"`
}

// Title is the first line of the note text, as shown in listings.
func (n Note) Title() string {
	t := n.Text
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(strings.TrimRight(t, "\r"))
}

// ListQuery selects notes ordered by last update, newest first.
type ListQuery struct {
	Since   time.Time
	Until   time.Time
	Limit   int
	Cursor  string
	Reverse bool
}

// SearchQuery is a full-text (FTS5) or regular-expression search.
type SearchQuery struct {
	Query   string
	Regex   bool
	Since   time.Time
	Until   time.Time
	Limit   int
	Cursor  string
	Reverse bool
}

// Page carries opaque cursors for the neighbouring pages.
type Page struct {
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}
