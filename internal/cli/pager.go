package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/present"
	"github.com/mithrel/mdnote/internal/present/format"
	"github.com/mithrel/mdnote/internal/present/tui"
	"github.com/mithrel/mdnote/internal/wire"
	"github.com/mithrel/mdnote/pkg/api"
)

const defaultPager = "less -FRSX"

// presentOptions fills the parts of present.Options that come from config.
func presentOptions(app *wire.App, mode present.Mode, headers bool) present.Options {
	opts := present.Options{
		Mode:     mode,
		Headers:  headers,
		Pretty:   prettyFromConfig(app),
		Renderer: app.Renderer,
	}
	if mode == present.ModeTUI {
		deps := tuiDeps(app)
		opts.TUI = &deps
	}
	return opts
}

func prettyFromConfig(app *wire.App) format.Pretty {
	p := format.DefaultPretty
	if s := app.Cfg.GetString("pretty.style"); s != "" {
		p.Style = s
	}
	if w := app.Cfg.GetInt("pretty.width"); w > 0 {
		p.Width = w
	}
	return p
}

func defaultExportFormat(app *wire.App) export.Format {
	f, err := export.ParseFormat(app.Cfg.GetString("export.format"))
	if err != nil {
		return export.Markdown
	}
	return f
}

func tuiDeps(app *wire.App) tui.Deps {
	return tui.Deps{
		Notes:        app.Notes,
		Exporter:     app.Exporter,
		Renderer:     app.Renderer,
		Pretty:       prettyFromConfig(app),
		ExportFormat: defaultExportFormat(app),
		Log:          app.Log,
	}
}

func renderNotes(ctx context.Context, out, errOut io.Writer, notes []api.Note, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderNotes(ctx, out, notes, opts)
	}
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderNotes(ctx, w, notes, opts)
	})
}

func renderNote(ctx context.Context, out, errOut io.Writer, n api.Note, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderNote(ctx, out, n, opts)
	}
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderNote(ctx, w, n, opts)
	})
}

// withPager pipes write's output through $PAGER when out is a terminal.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
