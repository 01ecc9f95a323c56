package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/importer"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <glob|file.json>...",
		Short: "Import Markdown files (doublestar globs) or JSON notes (array or NDJSON)",
		Long: `Import notes.

Arguments ending in .json or .ndjson are read as exported notes. Anything
else is a glob such as "notes/**/*.md"; quote it so the shell leaves it
alone. Markdown files may start with YAML front matter carrying id,
created and updated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			im := importer.New(app.Store, importer.WithLogger(app.Log))

			var total importer.Report
			var globs []string
			for _, arg := range args {
				if !importer.IsJSON(arg) {
					globs = append(globs, arg)
					continue
				}
				f, err := os.Open(arg)
				if err != nil {
					return err
				}
				rep, err := im.ImportJSON(cmd.Context(), f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("import %s: %w", arg, err)
				}
				merge(&total, rep, arg)
			}
			if len(globs) > 0 {
				rep, err := im.ImportGlobs(cmd.Context(), globs...)
				if err != nil {
					return err
				}
				merge(&total, rep, "")
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Imported: %d\nSkipped: %d\n", total.Imported, total.Skipped)
			srcs := make([]string, 0, len(total.Failures))
			for src := range total.Failures {
				srcs = append(srcs, src)
			}
			sort.Strings(srcs)
			for _, src := range srcs {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", src, total.Failures[src])
			}
			return nil
		},
	}
	return cmd
}

func merge(dst *importer.Report, src importer.Report, prefix string) {
	dst.Imported += src.Imported
	dst.Skipped += src.Skipped
	for k, v := range src.Failures {
		if dst.Failures == nil {
			dst.Failures = make(map[string]error)
		}
		dst.Failures[prefix+k] = v
	}
}
