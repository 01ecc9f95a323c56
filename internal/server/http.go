// Package server serves rendered notes over HTTP for browser preview.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/logging"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

// maxBody caps POST /render input.
const maxBody = 4 << 20

// Server renders notes and ad-hoc Markdown.
type Server struct {
	notes    *notes.Service
	exporter *export.Exporter
	policy   *bluemonday.Policy
	log      *log.Logger
	// settings fingerprints everything besides the note that shapes a page.
	settings string
}

type Option func(*Server)

// WithSanitize strips unsafe HTML from rendered output using the UGC policy.
func WithSanitize(v bool) Option {
	return func(s *Server) {
		if v {
			s.policy = NewPolicy()
		} else {
			s.policy = nil
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewPolicy is the sanitizer used for previews: user generated content
// rules, keeping heading ids so TOC links work.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	return p
}

func New(svc *notes.Service, exp *export.Exporter, opts ...Option) *Server {
	s := &Server{notes: svc, exporter: exp, log: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	s.settings = settingsFingerprint(exp.Formatter().Renderer().Options(), s.policy != nil)
	return s
}

func settingsFingerprint(o render.Options, sanitize bool) string {
	return fmt.Sprintf("sanitize=%t\x00refs=%t\x00%s\x00%s", sanitize, o.GFMRefs, o.IssuesURL, o.UsersURL)
}

// etag changes when either the note or the preview settings change.
func (s *Server) etag(n api.Note) string {
	return `"` + api.TextHash(n.Hash()+"\x00"+s.settings) + `"`
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /render", s.handleRender)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /notes/{id}", s.handleNote)
	mux.HandleFunc("GET /notes/{id}/export", s.handleExport)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) sanitize(html string) string {
	if s.policy == nil {
		return html
	}
	return s.policy.Sanitize(html)
}

func (s *Server) convert(text string, f export.Format) string {
	out := s.exporter.Formatter().Convert(text, f)
	if f == export.HTML {
		out = s.sanitize(out)
	}
	return out
}

func contentType(f export.Format) string {
	switch f {
	case export.HTML:
		return "text/html; charset=utf-8"
	case export.Markdown:
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func formatParam(r *http.Request) (export.Format, error) {
	v := strings.TrimSpace(r.URL.Query().Get("format"))
	if v == "" {
		return export.HTML, nil
	}
	return export.ParseFormat(v)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(b) > maxBody {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}
	w.Header().Set("Content-Type", contentType(f))
	_, _ = io.WriteString(w, s.convert(string(b), f))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (api.Note, bool) {
	n, err := s.notes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if notes.IsNotFound(err) {
			http.Error(w, "note not found", http.StatusNotFound)
		} else {
			s.log.Error("load note", "id", r.PathValue("id"), "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return api.Note{}, false
	}
	return n, true
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	etag := s.etag(n)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType(export.HTML))
	_, _ = io.WriteString(w, render.Page(n.Title(), s.convert(n.Text, export.HTML)))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	name := s.exporter.SuggestName(f)
	w.Header().Set("Content-Type", contentType(f))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.WriteString(w, s.convert(n.Text, f))
}

var indexTmpl = template.Must(template.New("index").Parse(`<ul>
{{range .}}<li><a href="/notes/{{.ID}}">{{if .Title}}{{.Title}}{{else}}(untitled){{end}}</a></li>
{{end}}</ul>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := s.notes.All(r.Context(), api.ListQuery{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	type item struct{ ID, Title string }
	items := make([]item, 0, len(list))
	for _, n := range list {
		items = append(items, item{ID: n.ID, Title: n.Title()})
	}
	var b strings.Builder
	if err := indexTmpl.Execute(&b, items); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(export.HTML))
	_, _ = io.WriteString(w, render.Page("Notes", b.String()))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("preview server listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
