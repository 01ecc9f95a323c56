// Package notes applies the save rules of the note editor on top of a Store.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mithrel/mdnote/internal/db"
	"github.com/mithrel/mdnote/internal/logging"
	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

// Action reports what Save did.
type Action int

const (
	ActionNone Action = iota
	ActionCreated
	ActionUpdated
	ActionDeleted
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionDeleted:
		return "deleted"
	}
	return "none"
}

// Service creates, updates and deletes notes.
type Service struct {
	store       db.Store
	now         func() time.Time
	newID       func() string
	deleteEmpty bool
	log         *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDs sets the id generator used for new notes.
func WithIDs(gen func() string) Option { return func(s *Service) { s.newID = gen } }

// WithDeleteEmpty deletes existing notes that are saved with no text.
func WithDeleteEmpty(v bool) Option { return func(s *Service) { s.deleteEmpty = v } }

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(store db.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: api.NewID,
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store exposes the underlying store for read paths.
func (s *Service) Store() db.Store { return s.store }

// Save stores text under id. An empty id means a new note.
//
//   - new note, blank text: nothing happens
//   - existing note, blank text: deleted when delete-empty is on, else kept
//   - existing note, same text: nothing happens
//   - otherwise the note is created or updated with UpdatedAt = now
func (s *Service) Save(ctx context.Context, id, text string) (api.Note, Action, error) {
	blank := strings.TrimSpace(text) == ""
	if id == "" {
		if blank {
			return api.Note{}, ActionNone, nil
		}
		ts := s.now()
		n, err := s.store.CreateNote(ctx, api.Note{ID: s.newID(), Text: text, CreatedAt: ts, UpdatedAt: ts})
		if err != nil {
			return api.Note{}, ActionNone, fmt.Errorf("create note: %w", err)
		}
		s.log.Debug("note created", "id", n.ID)
		return n, ActionCreated, nil
	}

	cur, err := s.store.GetNote(ctx, id)
	if err != nil {
		return api.Note{}, ActionNone, fmt.Errorf("load note %s: %w", id, err)
	}
	if blank {
		if !s.deleteEmpty {
			return cur, ActionNone, nil
		}
		if err := s.store.DeleteNote(ctx, id); err != nil {
			return api.Note{}, ActionNone, fmt.Errorf("delete note %s: %w", id, err)
		}
		s.log.Debug("empty note deleted", "id", id)
		return cur, ActionDeleted, nil
	}
	if api.TextHash(cur.Text) == api.TextHash(text) {
		return cur, ActionNone, nil
	}

	next := cur
	next.Text = text
	next.UpdatedAt = s.now()
	next.Version = cur.Version + 1
	n, err := s.store.UpdateNoteCAS(ctx, next, cur.Version)
	if err != nil {
		return api.Note{}, ActionNone, fmt.Errorf("update note %s: %w", id, err)
	}
	s.log.Debug("note updated", "id", id, "version", n.Version)
	return n, ActionUpdated, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Get resolves an id or unique prefix and loads the note.
func (s *Service) Get(ctx context.Context, idOrPrefix string) (api.Note, error) {
	id, err := s.store.ResolveID(ctx, idOrPrefix)
	if err != nil {
		return api.Note{}, err
	}
	return s.store.GetNote(ctx, id)
}

// All pages through every note, newest first.
func (s *Service) All(ctx context.Context, q api.ListQuery) ([]api.Note, error) {
	var out []api.Note
	for {
		batch, page, err := s.store.ListNotes(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if page.Next == "" || len(batch) == 0 {
			return out, nil
		}
		q.Cursor = page.Next
		q.Reverse = false
	}
}

// IsNotFound reports whether err came from a missing note.
func IsNotFound(err error) bool { return errors.Is(err, db.ErrNotFound) }

// Filter keeps notes whose text contains q, ignoring case. Order is kept.
func Filter(list []api.Note, q string) []api.Note {
	q = strings.ToLower(q)
	if q == "" {
		return list
	}
	out := make([]api.Note, 0, len(list))
	for _, n := range list {
		if strings.Contains(strings.ToLower(n.Text), q) {
			out = append(out, n)
		}
	}
	return out
}

// Rank orders notes by fuzzy match of q against their titles and drops the rest.
func Rank(list []api.Note, q string) []api.Note {
	titles := make([]string, len(list))
	for i, n := range list {
		titles[i] = n.Title()
	}
	idx := util.RankFuzzy(q, titles)
	out := make([]api.Note, 0, len(idx))
	for _, i := range idx {
		out = append(out, list[i])
	}
	return out
}
