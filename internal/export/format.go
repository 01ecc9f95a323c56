// Package export converts note Markdown into output files.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/mdnote/internal/render"
)

// Format selects the representation written by an export.
type Format int

const (
	PlainText Format = iota
	Markdown
	HTML
)

var ErrUnknownFormat = errors.New("unknown export format")

type formatSpec struct {
	name   string
	ext    string
	render bool
}

var formats = [...]formatSpec{
	PlainText: {name: "text", ext: "txt"},
	Markdown:  {name: "markdown", ext: "md"},
	HTML:      {name: "html", ext: "html", render: true},
}

// Formats lists every supported format in declaration order.
func Formats() []Format { return []Format{PlainText, Markdown, HTML} }

func (f Format) valid() bool { return f >= 0 && int(f) < len(formats) }

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].name
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string {
	if !f.valid() {
		return ""
	}
	return formats[f].ext
}

// Next cycles through the formats, wrapping after HTML.
func (f Format) Next() Format {
	return Format((int(f) + 1) % len(formats))
}

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "txt", "text", "plain", "plaintext":
		return PlainText, nil
	case "md", "markdown":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	}
	return PlainText, fmt.Errorf("%w: %q (want txt, md or html)", ErrUnknownFormat, s)
}

// Formatter applies a format's transform to note text.
type Formatter struct {
	r *render.Renderer
}

func NewFormatter(r *render.Renderer) *Formatter { return &Formatter{r: r} }

// Convert returns markdown unchanged for PlainText and Markdown and the
// rendered HTML fragment for HTML.
func Convert(r *render.Renderer, markdown string, format Format) string {
	if format.valid() && formats[format].render {
		return r.Render(markdown)
	}
	return markdown
}

// Renderer returns the renderer used for HTML output.
func (f *Formatter) Renderer() *render.Renderer { return f.r }

func (f *Formatter) Convert(markdown string, format Format) string {
	return Convert(f.r, markdown, format)
}
