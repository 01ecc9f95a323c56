package db

import (
	"context"
	"errors"
	"strings"

	"github.com/mithrel/mdnote/pkg/api"
)

// Store persists notes.
type Store interface {
	CreateNote(ctx context.Context, n api.Note) (api.Note, error)
	GetNote(ctx context.Context, id string) (api.Note, error)
	// UpdateNoteCAS stores n only if the current version equals ifVersion.
	UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error)
	DeleteNote(ctx context.Context, id string) error
	// ListNotes returns notes ordered by UpdatedAt, newest first.
	ListNotes(ctx context.Context, q api.ListQuery) ([]api.Note, api.Page, error)
	Search(ctx context.Context, q api.SearchQuery) ([]api.Note, api.Page, error)
	// ResolveID expands a unique id prefix to the full id.
	ResolveID(ctx context.Context, prefix string) (string, error)
	Close() error
}

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// Open returns a Store for dsn. "mem://" selects the in-memory store;
// "sqlite://path" or a bare path selects SQLite.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "mem://") || dsn == ":memory:" {
		return newMemStore(), nil
	}
	return openSQLite(ctx, dsn)
}
