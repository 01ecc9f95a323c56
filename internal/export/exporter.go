package export

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Request describes one export. Empty Name uses DefaultFileName and empty
// Dir uses the exporter's directory.
type Request struct {
	Text      string
	Format    Format
	Name      string
	Dir       string
	Overwrite bool
}

// Result reports where an export landed.
type Result struct {
	Path   string
	Format Format
	Bytes  int
	Err    error
}

// Exporter converts note text and writes it to disk.
type Exporter struct {
	conv      *Formatter
	dir       string
	overwrite bool
	now       func() time.Time
	log       *log.Logger
}

type Option func(*Exporter)

// WithClock replaces time.Now for file name suggestions.
func WithClock(now func() time.Time) Option { return func(e *Exporter) { e.now = now } }

// WithOverwrite makes every export replace existing files.
func WithOverwrite(v bool) Option { return func(e *Exporter) { e.overwrite = v } }

func WithLogger(l *log.Logger) Option { return func(e *Exporter) { e.log = l } }

func NewExporter(conv *Formatter, dir string, opts ...Option) *Exporter {
	e := &Exporter{conv: conv, dir: dir, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Dir is the default destination directory.
func (e *Exporter) Dir() string { return e.dir }

// Formatter returns the converter used for exports.
func (e *Exporter) Formatter() *Formatter { return e.conv }

// SuggestName returns the default file name for an export started now.
func (e *Exporter) SuggestName(f Format) string {
	return DefaultFileName(f, e.now())
}

// Export converts req.Text and writes it out.
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	res := Result{Format: req.Format}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = e.SuggestName(req.Format)
	}
	dir := req.Dir
	if dir == "" {
		dir = e.dir
	}
	out := e.conv.Convert(req.Text, req.Format)
	path, err := WriteTextFile(dir, name, out, req.Overwrite || e.overwrite)
	res.Path = path
	if err != nil {
		if e.log != nil {
			e.log.Warn("export failed", "name", name, "dir", dir, "err", err)
		}
		return res, err
	}
	res.Bytes = len(out)
	if e.log != nil {
		e.log.Info("exported note", "path", path, "format", req.Format, "bytes", res.Bytes)
	}
	return res, nil
}

// ExportAsync runs Export on its own goroutine. The channel yields exactly
// one Result, with Err set on failure, and is then closed.
func (e *Exporter) ExportAsync(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		res, err := e.Export(ctx, req)
		res.Err = err
		ch <- res
	}()
	return ch
}
