package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/mdnote/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// Timestamps are stored as UTC unix nanoseconds so range and cursor
// comparisons stay numeric.
func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

const noteColumns = `n.id, n.version, n.text, n.created_at, n.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (api.Note, error) {
	var n api.Note
	var created, updated int64
	if err := r.Scan(&n.ID, &n.Version, &n.Text, &created, &updated); err != nil {
		return api.Note{}, err
	}
	n.CreatedAt = fromNanos(created)
	n.UpdatedAt = fromNanos(updated)
	return n, nil
}

// whereClause composes time range and keyset cursor conditions.
func whereClause(since, until time.Time, cursor string, reverse bool) ([]string, []any, bool) {
	conds := []string{}
	args := []any{}
	if !since.IsZero() {
		conds = append(conds, "n.updated_at >= ?")
		args = append(args, toNanos(since))
	}
	if !until.IsZero() {
		conds = append(conds, "n.updated_at <= ?")
		args = append(args, toNanos(until))
	}
	c, ok := parseCursorToken(cursor)
	if ok {
		ts := toNanos(c.ts)
		if reverse {
			conds = append(conds, "(n.updated_at > ? OR (n.updated_at = ? AND n.id > ?))")
		} else {
			conds = append(conds, "(n.updated_at < ? OR (n.updated_at = ? AND n.id < ?))")
		}
		args = append(args, ts, ts, c.id)
	}
	return conds, args, ok
}

func orderByClause(reverse bool) string {
	if reverse {
		return "ORDER BY n.updated_at ASC, n.id ASC"
	}
	return "ORDER BY n.updated_at DESC, n.id DESC"
}

func (s *sqliteStore) GetNote(ctx context.Context, id string) (api.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id=?`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Note{}, ErrNotFound
		}
		return api.Note{}, err
	}
	return n, nil
}

func (s *sqliteStore) CreateNote(ctx context.Context, n api.Note) (api.Note, error) {
	if n.ID == "" {
		return api.Note{}, ErrConflict
	}
	if n.Version == 0 {
		n.Version = 1
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return api.Note{}, err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `INSERT INTO notes(id, version, text, created_at, updated_at) VALUES(?,?,?,?,?)`,
		n.ID, n.Version, n.Text, toNanos(n.CreatedAt), toNanos(n.UpdatedAt)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			err = ErrConflict
		}
		return api.Note{}, err
	}
	if err = indexNoteTx(ctx, tx, n); err != nil {
		return api.Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return api.Note{}, err
	}
	return n, nil
}

func (s *sqliteStore) UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return api.Note{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE notes SET version=?, text=?, updated_at=? WHERE id=? AND version=?`,
		n.Version, n.Text, toNanos(n.UpdatedAt), n.ID, ifVersion)
	if err != nil {
		return api.Note{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE id=?`, n.ID).Scan(&one); errors.Is(err, sql.ErrNoRows) {
			return api.Note{}, ErrNotFound
		}
		return api.Note{}, ErrConflict
	}

	cur, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id=?`, n.ID))
	if err != nil {
		return api.Note{}, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM notes_fts WHERE id=?`, cur.ID); err != nil {
		return api.Note{}, err
	}
	if err = indexNoteTx(ctx, tx, cur); err != nil {
		return api.Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return api.Note{}, err
	}
	return cur, nil
}

func (s *sqliteStore) DeleteNote(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM notes_fts WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListNotes pages through notes by last update using a keyset cursor.
func (s *sqliteStore) ListNotes(ctx context.Context, q api.ListQuery) ([]api.Note, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	conds, args, hasCursor := whereClause(q.Since, q.Until, q.Cursor, q.Reverse)
	sqlq := `SELECT ` + noteColumns + ` FROM notes n`
	if len(conds) > 0 {
		sqlq += "\nWHERE " + strings.Join(conds, " AND ")
	}
	sqlq += "\n" + orderByClause(q.Reverse) + "\nLIMIT ?"
	args = append(args, limit+1)

	out, err := s.queryNotes(ctx, sqlq, args...)
	if err != nil {
		return nil, api.Page{}, err
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	if q.Reverse {
		reverseNotes(out)
	}
	return out, buildPage(out, hasMore, q.Reverse, hasCursor), nil
}

func (s *sqliteStore) Search(ctx context.Context, q api.SearchQuery) ([]api.Note, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var (
		out       []api.Note
		hasMore   bool
		hasCursor bool
		err       error
	)
	if q.Regex {
		out, hasMore, hasCursor, err = s.searchRegex(ctx, q, limit)
	} else {
		out, hasMore, hasCursor, err = s.searchFTS(ctx, q, limit)
	}
	if err != nil {
		return nil, api.Page{}, err
	}
	if q.Reverse {
		reverseNotes(out)
	}
	return out, buildPage(out, hasMore, q.Reverse, hasCursor), nil
}

func (s *sqliteStore) searchFTS(ctx context.Context, q api.SearchQuery, limit int) ([]api.Note, bool, bool, error) {
	match := ftsQuery(q.Query)
	if match == "" {
		return nil, false, false, nil
	}
	conds, args, hasCursor := whereClause(q.Since, q.Until, q.Cursor, q.Reverse)
	conds = append([]string{"x.notes_fts MATCH ?"}, conds...)
	args = append([]any{match}, args...)
	sqlq := `SELECT ` + noteColumns + `
FROM notes n
JOIN notes_fts x ON x.id = n.id
WHERE ` + strings.Join(conds, " AND ") + "\n" + orderByClause(q.Reverse) + "\nLIMIT ?"
	args = append(args, limit+1)
	out, err := s.queryNotes(ctx, sqlq, args...)
	if err != nil {
		return nil, false, false, err
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, hasCursor, nil
}

func (s *sqliteStore) searchRegex(ctx context.Context, q api.SearchQuery, limit int) ([]api.Note, bool, bool, error) {
	re, err := regexp.Compile(q.Query)
	if err != nil {
		return nil, false, false, err
	}
	conds, args, hasCursor := whereClause(q.Since, q.Until, q.Cursor, q.Reverse)
	sqlq := `SELECT ` + noteColumns + ` FROM notes n`
	if len(conds) > 0 {
		sqlq += "\nWHERE " + strings.Join(conds, " AND ")
	}
	sqlq += "\n" + orderByClause(q.Reverse)
	rows, err := s.db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, false, false, err
	}
	defer rows.Close()
	out := make([]api.Note, 0, limit+1)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, false, false, err
		}
		if re.MatchString(n.Text) {
			out = append(out, n)
			if len(out) > limit {
				break
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, false, err
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, hasCursor, nil
}

func (s *sqliteStore) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM notes WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`, prefix, len(prefix), prefix)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		if id == prefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) queryNotes(ctx context.Context, sqlq string, args ...any) ([]api.Note, error) {
	rows, err := s.db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ftsQuery quotes every term so user input cannot inject FTS5 syntax. The
// last term matches as a prefix to support search-as-you-type.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	terms[len(terms)-1] += "*"
	return strings.Join(terms, " ")
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  version INTEGER NOT NULL,
  text TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_updated_id ON notes(updated_at DESC, id);
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
  text,
  id UNINDEXED,
  tokenize='unicode61'
);
`)
	return err
}

func indexNoteTx(ctx context.Context, tx *sql.Tx, n api.Note) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes_fts(rowid, text, id) VALUES((SELECT rowid FROM notes WHERE id=?), ?, ?)`, n.ID, n.Text, n.ID)
	return err
}
