package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/internal/server"
	"github.com/mithrel/mdnote/internal/watch"
	"github.com/mithrel/mdnote/internal/wire"
)

type renderOpts struct {
	format     string
	standalone bool
	sanitize   bool
	watch      bool
	out        string
}

func newRenderCmd() *cobra.Command {
	var o renderOpts
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Convert a Markdown file to HTML, Markdown or plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			f, err := export.ParseFormat(o.format)
			if err != nil {
				return fmt.Errorf("invalid --format: %w", err)
			}
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			if o.watch && src == "-" {
				return fmt.Errorf("--watch needs a file argument")
			}

			once := func(ctx context.Context) error {
				text, err := readSource(cmd, src)
				if err != nil {
					return err
				}
				return writeRendered(cmd, o.out, convertForRender(app, text, f, o, src))
			}
			if err := once(cmd.Context()); err != nil {
				return err
			}
			if !o.watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w, err := watch.New(src, watch.WithLogger(app.Log))
			if err != nil {
				return err
			}
			defer w.Close()
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (ctrl+c to stop)\n", src)
			return w.Run(ctx, once)
		},
	}
	cmd.Flags().StringVar(&o.format, "format", "html", "txt|md|html")
	cmd.Flags().BoolVar(&o.standalone, "standalone", false, "wrap html in a full page")
	cmd.Flags().BoolVar(&o.sanitize, "sanitize", false, "strip unsafe html")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "re-render whenever the file changes")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write to this file instead of stdout")
	_ = cmd.RegisterFlagCompletionFunc("format", completeExportFormats)
	return cmd
}

func readSource(cmd *cobra.Command, src string) (string, error) {
	if src == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(src)
	return string(b), err
}

func convertForRender(app *wire.App, text string, f export.Format, o renderOpts, src string) string {
	out := app.Formatter.Convert(text, f)
	if f != export.HTML {
		return out
	}
	if o.sanitize {
		out = server.NewPolicy().Sanitize(out)
	}
	if o.standalone {
		title := firstNonEmptyLine(text)
		if title == "" && src != "-" {
			title = filepath.Base(src)
		}
		out = render.Page(title, out)
	}
	return out
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(render.NormalizeLineEndings(text), "\n") {
		if t := strings.TrimSpace(strings.TrimLeft(line, "# ")); t != "" {
			return t
		}
	}
	return ""
}

func writeRendered(cmd *cobra.Command, out, content string) error {
	if out == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, out)
}
