package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/present"
	"github.com/mithrel/mdnote/pkg/api"
)

func newNoteTUICmd() *cobra.Command {
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse, edit and export notes interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			list, err := app.Notes.All(cmd.Context(), api.ListQuery{Limit: app.Cfg.GetInt("list.page_size")})
			if err != nil {
				return err
			}
			opts := presentOptions(app, present.ModeTUI, !noHeaders)
			return present.RenderNotes(cmd.Context(), cmd.OutOrStdout(), list, opts)
		},
	}
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers")
	return cmd
}
