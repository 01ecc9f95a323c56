package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/present"
	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

// FilterOpts are the time filters shared by list and search.
type FilterOpts struct {
	Since string
	Until string
}

func addFilterFlags(cmd *cobra.Command, f *FilterOpts) {
	cmd.Flags().StringVar(&f.Since, "since", "", "only notes updated at or after this time (e.g. 3d, yesterday, 2025-01-01)")
	cmd.Flags().StringVar(&f.Until, "until", "", "only notes updated at or before this time")
}

func newNoteListCmd() *cobra.Command {
	var filters FilterOpts
	var outputMode string
	var noHeaders bool
	var limit int
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			since, until, err := util.TimeRange(filters.Since, filters.Until, time.Now())
			if err != nil {
				return err
			}
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			pageSize := app.Cfg.GetInt("list.page_size")
			opts := presentOptions(app, mode, !noHeaders)
			store := app.Notes.Store()
			fetch := func(ctx context.Context, cursor string, n int) ([]api.Note, api.Page, error) {
				return store.ListNotes(ctx, api.ListQuery{Since: since, Until: until, Limit: n, Cursor: cursor})
			}

			if filter == "" && streams(mode) {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return streamNotes(cmd.Context(), fetch, pageSize, limit, present.NewStreamWriter(w, opts))
				})
			}

			list, err := fetchAllNotes(cmd.Context(), fetch, pageSize)
			if err != nil {
				return err
			}
			if filter != "" {
				list = filterNotes(list, filter)
			}
			if limit > 0 && len(list) > limit {
				list = list[:limit]
			}
			return renderNotes(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), list, opts)
		},
	}
	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVar(&outputMode, "output", "plain", "output mode: "+strings.Join(present.ModeNames(), "|"))
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of notes (0 means all)")
	cmd.Flags().StringVar(&filter, "filter", "", "keep notes containing this text; falls back to fuzzy title match")
	cmd.Flags().Int("page-size", 0, "batch size for store paging (0 uses list.page_size)")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)
	return cmd
}

// streams reports whether mode has a page-by-page writer.
func streams(mode present.Mode) bool {
	switch mode {
	case present.ModePlain, present.ModeJSON, present.ModeNDJSON:
		return true
	}
	return false
}

// filterNotes applies the substring filter and falls back to fuzzy ranking
// when nothing contains the query.
func filterNotes(list []api.Note, q string) []api.Note {
	if out := notes.Filter(list, q); len(out) > 0 {
		return out
	}
	return notes.Rank(list, q)
}
