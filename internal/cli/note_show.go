package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/present"
)

func newNoteShowCmd() *cobra.Command {
	var outputMode string
	var standalone bool
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display a note",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			n, err := app.Notes.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("note %s: %w", args[0], err)
			}
			opts := presentOptions(app, mode, true)
			opts.Standalone = standalone
			return renderNote(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), n, opts)
		},
	}
	cmd.Flags().StringVar(&outputMode, "output", "pretty", "output mode: "+strings.Join(present.ModeNames(), "|"))
	cmd.Flags().BoolVar(&standalone, "standalone", false, "wrap html output in a full page")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)
	return cmd
}

func completeOutputModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return present.ModeNames(), cobra.ShellCompDirectiveNoFileComp
}
