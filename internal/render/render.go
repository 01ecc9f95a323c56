// Package render converts note Markdown into HTML fragments.
package render

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// SoftBreak is what a single newline inside a paragraph renders to.
const SoftBreak = "<br />\n"

// Options configures a Renderer. Strikethrough, tables and [TOC] are always on.
type Options struct {
	// GFMRefs links #123 issue and @user mentions.
	GFMRefs   bool
	IssuesURL string
	UsersURL  string

	// Logger receives conversion failures. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{IssuesURL: DefaultIssuesURL, UsersURL: DefaultUsersURL}
}

// Renderer turns Markdown into an HTML fragment. It holds no per-call state
// and is safe for concurrent use once built.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// New builds a Renderer. Options are copied and cannot change afterwards.
func New(opts Options) *Renderer {
	exts := []goldmark.Extender{
		extension.Strikethrough,
		extension.Table,
		TOC,
	}
	if opts.GFMRefs {
		exts = append(exts, &References{IssuesURL: opts.IssuesURL, UsersURL: opts.UsersURL})
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// Preprocess emits raw <br /> lines.
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md, opts: opts}
}

// Options returns the configuration the renderer was built with.
func (r *Renderer) Options() Options { return r.opts }

// Render returns the HTML for markdown. Blank input renders as "". Unsupported or malformed syntax is
// rendered as text; Render never fails.
func (r *Renderer) Render(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(Preprocess(markdown)), &buf); err != nil {
		if r.opts.Logger != nil {
			r.opts.Logger.Debug("markdown conversion failed", "err", err, "bytes", len(markdown))
		}
	}
	return buf.String()
}
