package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdnote/pkg/api"
)

func newNoteDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <id>...",
		Short:             "Delete notes",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeNoteIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			selected := make([]api.Note, 0, len(args))
			for _, id := range args {
				n, err := app.Notes.Get(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("note %s: %w", id, err)
				}
				selected = append(selected, n)
			}

			title := fmt.Sprintf("Delete note %q?", selected[0].Title())
			if len(selected) > 1 {
				title = fmt.Sprintf("Delete %d notes?", len(selected))
			}
			if err := confirmDelete(title, "This will permanently delete the selected notes.", yes); err != nil {
				return err
			}

			for _, n := range selected {
				if err := app.Notes.Delete(cmd.Context(), n.ID); err != nil {
					return err
				}
			}
			if len(selected) == 1 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Note ID %s deleted successfully.\n", selected[0].ID)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notes.\n", len(selected))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "force", "f", false, "delete without asking")
	cmd.Flags().BoolVar(&yes, "yes", false, "alias for --force")
	return cmd
}

// confirmDelete asks on a terminal and refuses to guess otherwise.
func confirmDelete(title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("confirmation required; rerun with --force")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
