// Package importer loads notes from Markdown files and JSON dumps.
package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/mdnote/internal/db"
	"github.com/mithrel/mdnote/internal/logging"
	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

// ErrEmpty is returned for files with no note text.
var ErrEmpty = errors.New("empty note")

// FrontMatter is the optional YAML header of an imported Markdown file.
type FrontMatter struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
}

// Report summarizes an import run.
type Report struct {
	Imported int
	Skipped  int
	// Failures maps a source (file or JSON index) to why it was skipped.
	Failures map[string]error
}

func (r *Report) skip(src string, err error) {
	r.Skipped++
	if r.Failures == nil {
		r.Failures = make(map[string]error)
	}
	r.Failures[src] = err
}

type Importer struct {
	store db.Store
	now   func() time.Time
	newID func() string
	log   *log.Logger
}

type Option func(*Importer)

func WithClock(now func() time.Time) Option { return func(im *Importer) { im.now = now } }

func WithIDs(gen func() string) Option { return func(im *Importer) { im.newID = gen } }

func WithLogger(l *log.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.log = l
		}
	}
}

func New(store db.Store, opts ...Option) *Importer {
	im := &Importer{store: store, now: time.Now, newID: api.NewID, log: logging.Discard()}
	for _, o := range opts {
		o(im)
	}
	return im
}

// ParseFrontMatter splits a leading "---" YAML block from the body. Files
// without a valid block are returned unchanged with ok false.
func ParseFrontMatter(text string) (fm FrontMatter, body string, ok bool) {
	text = render.NormalizeLineEndings(text)
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return FrontMatter{}, text, false
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return FrontMatter{}, text, false
	}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		return FrontMatter{}, text, false
	}
	rest := lines[end+1:]
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}
	return fm, strings.Join(rest, "\n"), true
}

// ImportGlobs imports every file matched by the doublestar patterns
// ("notes/**/*.md"). A file matched twice is imported once.
func (im *Importer) ImportGlobs(ctx context.Context, patterns ...string) (Report, error) {
	var rep Report
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return rep, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return rep, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if _, err := im.ImportFile(ctx, path); err != nil {
				im.log.Warn("skipped file", "path", path, "err", err)
				rep.skip(path, err)
				continue
			}
			rep.Imported++
		}
	}
	return rep, nil
}

// ImportFile stores one Markdown file as a note. Missing timestamps fall
// back to the file's modification time.
func (im *Importer) ImportFile(ctx context.Context, path string) (api.Note, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return api.Note{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return api.Note{}, err
	}
	fm, body, _ := ParseFrontMatter(string(b))
	if strings.TrimSpace(body) == "" {
		return api.Note{}, ErrEmpty
	}
	n := api.Note{ID: fm.ID, Text: body, CreatedAt: fm.Created, UpdatedAt: fm.Updated}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = info.ModTime()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = n.UpdatedAt
	}
	return im.create(ctx, n)
}

// ImportJSON reads a JSON array or NDJSON stream of notes.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader) (Report, error) {
	var rep Report
	br := bufio.NewReader(r)
	first, err := peekFirstNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return rep, nil
		}
		return rep, err
	}
	dec := json.NewDecoder(br)

	add := func(i int, n api.Note) {
		if _, err := im.create(ctx, n); err != nil {
			rep.skip(fmt.Sprintf("#%d", i), err)
			return
		}
		rep.Imported++
	}

	if first == '[' {
		var arr []api.Note
		if err := dec.Decode(&arr); err != nil {
			return rep, err
		}
		for i, n := range arr {
			add(i, n)
		}
		return rep, nil
	}
	for i := 0; ; i++ {
		var n api.Note
		if err := dec.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				return rep, nil
			}
			return rep, err
		}
		add(i, n)
	}
}

func (im *Importer) create(ctx context.Context, n api.Note) (api.Note, error) {
	if strings.TrimSpace(n.Text) == "" {
		return api.Note{}, ErrEmpty
	}
	if n.ID == "" {
		n.ID = im.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = im.now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	n.Version = 0
	out, err := im.store.CreateNote(ctx, n)
	if err != nil {
		return api.Note{}, fmt.Errorf("import %s: %w", n.ID, err)
	}
	im.log.Debug("imported note", "id", out.ID)
	return out, nil
}

func peekFirstNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		// put it back for the decoder
		if err := r.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// IsJSON reports whether path should go through ImportJSON.
func IsJSON(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".json" || ext == ".ndjson" || ext == ".jsonl"
}
