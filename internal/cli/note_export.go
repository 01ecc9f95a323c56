package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdnote/internal/export"
)

func newNoteExportCmd() *cobra.Command {
	var (
		formatName string
		name       string
		dir        string
		force      bool
		toStdout   bool
	)
	cmd := &cobra.Command{
		Use:               "export <id>",
		Short:             "Export a note as plain text, Markdown or HTML",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			f := defaultExportFormat(app)
			if formatName != "" {
				var err error
				if f, err = export.ParseFormat(formatName); err != nil {
					return fmt.Errorf("invalid --format: %w", err)
				}
			}
			n, err := app.Notes.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("note %s: %w", args[0], err)
			}

			if toStdout {
				_, err := io.WriteString(cmd.OutOrStdout(), app.Formatter.Convert(n.Text, f))
				return err
			}

			if name == "" {
				name = app.Exporter.SuggestName(f)
				if term.IsTerminal(int(os.Stdin.Fd())) {
					if name, err = promptFileName(name); err != nil {
						return err
					}
				}
			}
			res, err := app.Exporter.Export(cmd.Context(), export.Request{
				Text:      n.Text,
				Format:    f,
				Name:      name,
				Dir:       dir,
				Overwrite: force,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s, %d bytes)\n", res.Path, res.Format, res.Bytes)
			return nil
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "", "txt|md|html (default from export.format)")
	cmd.Flags().StringVar(&name, "name", "", "file name (default memo_YYYYMMDD_HHMMSS.<ext>)")
	cmd.Flags().StringVar(&dir, "dir", "", "destination directory (default export.dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the converted note to stdout instead of a file")
	_ = cmd.RegisterFlagCompletionFunc("format", completeExportFormats)
	return cmd
}

// promptFileName lets the user accept or change the suggested name.
func promptFileName(suggested string) (string, error) {
	name := suggested
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export as").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("file name is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func completeExportFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		out = append(out, f.Extension())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
