package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdnote/internal/editor"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/present/tui"
	"github.com/mithrel/mdnote/pkg/api"
)

func newNoteEditCmd() *cobra.Command {
	var live bool
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Edit an existing note",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			cur, err := app.Notes.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("note %s: %w", args[0], err)
			}

			var (
				n   api.Note
				act notes.Action
			)
			if live {
				n, act, err = tui.RunEditor(cmd.Context(), tuiDeps(app), cur)
				if err != nil {
					return err
				}
			} else {
				text, changed, err := editor.Edit(cur.ID, cur.Text)
				if err != nil {
					return err
				}
				if !changed {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
					return nil
				}
				n, act, err = app.Notes.Save(cmd.Context(), cur.ID, text)
				if err != nil {
					return err
				}
			}
			return printSaveResult(cmd, n, act)
		},
	}
	cmd.Flags().BoolVar(&live, "tui", false, "edit in the live-preview editor instead of $EDITOR")
	return cmd
}

func printSaveResult(cmd *cobra.Command, n api.Note, act notes.Action) error {
	out := cmd.OutOrStdout()
	switch act {
	case notes.ActionNone:
		_, _ = fmt.Fprintln(out, "No changes.")
	case notes.ActionDeleted:
		_, _ = fmt.Fprintf(out, "Note ID %s deleted (empty content).\n", n.ID)
	default:
		_, _ = fmt.Fprintf(out, "%s\t%s\n", n.ID, n.Title())
	}
	return nil
}
