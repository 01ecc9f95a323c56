package db

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mithrel/mdnote/pkg/api"
)

// memStore keeps notes in a map. Used for tests and "mem://" DSNs.
type memStore struct {
	mu   sync.RWMutex
	byID map[string]api.Note
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]api.Note)}
}

func (m *memStore) CreateNote(ctx context.Context, n api.Note) (api.Note, error) {
	if n.ID == "" {
		return api.Note{}, ErrConflict
	}
	if n.Version == 0 {
		n.Version = 1
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[n.ID]; ok {
		return api.Note{}, ErrConflict
	}
	m.byID[n.ID] = n
	return n, nil
}

func (m *memStore) GetNote(ctx context.Context, id string) (api.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.byID[id]
	if !ok {
		return api.Note{}, ErrNotFound
	}
	return n, nil
}

func (m *memStore) UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[n.ID]
	if !ok {
		return api.Note{}, ErrNotFound
	}
	if cur.Version != ifVersion {
		return api.Note{}, ErrConflict
	}
	cur.Version = n.Version
	cur.Text = n.Text
	cur.UpdatedAt = n.UpdatedAt.UTC()
	m.byID[n.ID] = cur
	return cur, nil
}

func (m *memStore) DeleteNote(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) ListNotes(ctx context.Context, q api.ListQuery) ([]api.Note, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	out, hasMore, hasCursor := m.window(q.Since, q.Until, q.Cursor, q.Reverse, limit, nil)
	return out, buildPage(out, hasMore, q.Reverse, hasCursor), nil
}

func (m *memStore) Search(ctx context.Context, q api.SearchQuery) ([]api.Note, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var match func(string) bool
	if q.Regex {
		re, err := regexp.Compile(q.Query)
		if err != nil {
			return nil, api.Page{}, err
		}
		match = re.MatchString
	} else {
		terms := strings.Fields(strings.ToLower(q.Query))
		if len(terms) == 0 {
			return nil, api.Page{}, nil
		}
		match = func(s string) bool {
			s = strings.ToLower(s)
			for _, t := range terms {
				if !strings.Contains(s, t) {
					return false
				}
			}
			return true
		}
	}
	out, hasMore, hasCursor := m.window(q.Since, q.Until, q.Cursor, q.Reverse, limit, match)
	return out, buildPage(out, hasMore, q.Reverse, hasCursor), nil
}

// window returns one page in display order (newest first).
func (m *memStore) window(since, until time.Time, cursor string, reverse bool, limit int, match func(string) bool) ([]api.Note, bool, bool) {
	m.mu.RLock()
	all := make([]api.Note, 0, len(m.byID))
	for _, n := range m.byID {
		all = append(all, n)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	if reverse {
		reverseNotes(all)
	}
	c, hasCursor := parseCursorToken(cursor)
	out := make([]api.Note, 0, limit+1)
	for _, n := range all {
		if !inRange(n.UpdatedAt, since, until) {
			continue
		}
		if hasCursor && !c.after(n, reverse) {
			continue
		}
		if match != nil && !match(n.Text) {
			continue
		}
		out = append(out, n)
		if len(out) > limit {
			break
		}
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	if reverse {
		reverseNotes(out)
	}
	return out, hasMore, hasCursor
}

func (m *memStore) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.byID[prefix]; ok {
		return prefix, nil
	}
	var found []string
	for id := range m.byID {
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", ErrNotFound
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
}

func (m *memStore) Close() error { return nil }
