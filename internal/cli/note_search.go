package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/present"
	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/pkg/api"
)

func newNoteSearchCmd() *cobra.Command {
	var filters FilterOpts
	var outputMode string
	var noHeaders bool
	var limit int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search notes (fts|regex)",
	}

	run := func(regex bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			since, until, err := util.TimeRange(filters.Since, filters.Until, time.Now())
			if err != nil {
				return err
			}
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			store := app.Notes.Store()
			fetch := func(ctx context.Context, cursor string, n int) ([]api.Note, api.Page, error) {
				return store.Search(ctx, api.SearchQuery{
					Query:  args[0],
					Regex:  regex,
					Since:  since,
					Until:  until,
					Limit:  n,
					Cursor: cursor,
				})
			}
			pageSize := app.Cfg.GetInt("list.page_size")
			opts := presentOptions(app, mode, !noHeaders)
			if streams(mode) {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return streamNotes(cmd.Context(), fetch, pageSize, limit, present.NewStreamWriter(w, opts))
				})
			}
			list, err := fetchAllNotes(cmd.Context(), fetch, pageSize)
			if err != nil {
				return err
			}
			if limit > 0 && len(list) > limit {
				list = list[:limit]
			}
			return renderNotes(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), list, opts)
		}
	}

	fts := &cobra.Command{
		Use:   "fts <query>",
		Short: "Full-text search; the last term matches as a prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  run(false),
	}
	rx := &cobra.Command{
		Use:   "regex <pattern>",
		Short: "Regular expression search over note text",
		Args:  cobra.ExactArgs(1),
		RunE:  run(true),
	}
	cmd.AddCommand(fts, rx)

	cmd.PersistentFlags().StringVar(&filters.Since, "since", "", "only notes updated at or after this time")
	cmd.PersistentFlags().StringVar(&filters.Until, "until", "", "only notes updated at or before this time")
	cmd.PersistentFlags().StringVar(&outputMode, "output", "plain", "output mode: "+strings.Join(present.ModeNames(), "|"))
	cmd.PersistentFlags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	cmd.PersistentFlags().IntVar(&limit, "limit", 0, "maximum number of results (0 means all)")
	cmd.PersistentFlags().Int("page-size", 0, "batch size for store paging (0 uses list.page_size)")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)
	return cmd
}
