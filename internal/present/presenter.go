package present

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mithrel/mdnote/internal/present/format"
	"github.com/mithrel/mdnote/internal/present/tui"
	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeHTML
	ModeTUI
)

var modeNames = [...]string{"plain", "pretty", "json", "ndjson", "html", "tui"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ModeNames lists every output mode, for flag completion.
func ModeNames() []string { return modeNames[:] }

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "html", "tui".
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModePlain, false
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Now anchors relative list dates. Zero means time.Now.
	Now        time.Time
	Pretty     format.Pretty
	Renderer   *render.Renderer
	Standalone bool
	// TUI is required for ModeTUI.
	TUI *tui.Deps
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

var errNoRenderer = errors.New("html output needs a renderer")

// RenderNotes renders a list of notes according to options.
func RenderNotes(ctx context.Context, w io.Writer, notes []api.Note, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONNotes(w, notes, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONNotes(w, notes)
	case ModePretty:
		return format.WritePrettyNotes(w, notes, opts.Pretty, opts.now())
	case ModeHTML:
		if opts.Renderer == nil {
			return errNoRenderer
		}
		return format.WriteHTMLNotes(w, opts.Renderer, notes, opts.Standalone)
	case ModeTUI:
		if opts.TUI == nil {
			return errors.New("tui output is not available here")
		}
		return tui.RunBrowser(ctx, *opts.TUI, notes, opts.Headers)
	default:
		return format.WritePlainNotes(w, notes, opts.Headers, opts.now())
	}
}

// RenderNote renders a single note according to options.
func RenderNote(ctx context.Context, w io.Writer, n api.Note, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONNote(w, n, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONNote(w, n)
	case ModePretty:
		return format.WritePrettyNote(w, n, opts.Pretty, opts.now())
	case ModeHTML:
		if opts.Renderer == nil {
			return errNoRenderer
		}
		return format.WriteHTMLNote(w, opts.Renderer, n, opts.Standalone)
	case ModeTUI:
		if opts.TUI == nil {
			return errors.New("tui output is not available here")
		}
		_, _, err := tui.RunEditor(ctx, *opts.TUI, n)
		return err
	default:
		return format.WritePlainNote(w, n)
	}
}

// NoteStreamWriter writes notes page by page.
type NoteStreamWriter interface {
	WriteNotes([]api.Note) error
	Close() error
}

// NewStreamWriter picks the streaming writer for opts.Mode. Modes without
// a streaming form fall back to plain TSV.
func NewStreamWriter(w io.Writer, opts Options) NoteStreamWriter {
	switch opts.Mode {
	case ModeJSON:
		return format.NewJSONStreamWriter(w, opts.JSONIndent)
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter(w)
	default:
		return format.NewPlainStreamWriter(w, opts.Headers, opts.now())
	}
}
