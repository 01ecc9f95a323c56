package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/mithrel/mdnote/pkg/api"
)

const (
	defaultListLimit   = 1000
	defaultSearchLimit = 500
)

type cursorToken struct {
	ts time.Time
	id string
}

func parseCursorToken(s string) (cursorToken, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "|", 2)
	if len(parts) != 2 {
		return cursorToken{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return cursorToken{}, false
	}
	id := strings.TrimSpace(parts[1])
	if id == "" {
		return cursorToken{}, false
	}
	return cursorToken{ts: ts, id: id}, true
}

func encodeCursorToken(n api.Note) string {
	return fmt.Sprintf("%s|%s", n.UpdatedAt.UTC().Format(time.RFC3339Nano), n.ID)
}

// after reports whether n sorts after the cursor in the requested order.
func (c cursorToken) after(n api.Note, reverse bool) bool {
	if reverse {
		return n.UpdatedAt.After(c.ts) || (n.UpdatedAt.Equal(c.ts) && n.ID > c.id)
	}
	return n.UpdatedAt.Before(c.ts) || (n.UpdatedAt.Equal(c.ts) && n.ID < c.id)
}

func reverseNotes(notes []api.Note) {
	for i, j := 0, len(notes)-1; i < j; i, j = i+1, j-1 {
		notes[i], notes[j] = notes[j], notes[i]
	}
}

// buildPage expects notes in display order (newest first).
func buildPage(notes []api.Note, hasMore bool, reverse bool, hasCursor bool) api.Page {
	var page api.Page
	if len(notes) == 0 {
		return page
	}
	first := notes[0]
	last := notes[len(notes)-1]
	if reverse {
		// Paging towards newer notes: the window was fetched oldest first
		// and flipped, so "first" is the newest.
		if hasMore {
			page.Prev = encodeCursorToken(first)
		}
		page.Next = encodeCursorToken(last)
		return page
	}
	if hasMore {
		page.Next = encodeCursorToken(last)
	}
	if hasCursor {
		page.Prev = encodeCursorToken(first)
	}
	return page
}

func inRange(t, since, until time.Time) bool {
	if !since.IsZero() && t.Before(since) {
		return false
	}
	if !until.IsZero() && t.After(until) {
		return false
	}
	return true
}
