package cli

import (
	"github.com/spf13/cobra"
)

// newNoteCmd defines the parent "note" command.
// Running "mdnote note" without subcommands adds a note.
func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note [text...]",
		Short: "Work with notes (default: add one)",
		Args:  cobra.ArbitraryArgs,
		RunE:  runNoteAdd,
	}

	cmd.AddCommand(newNoteAddCmd())
	cmd.AddCommand(newNoteEditCmd())
	cmd.AddCommand(newNoteShowCmd())
	cmd.AddCommand(newNoteListCmd())
	cmd.AddCommand(newNoteSearchCmd())
	cmd.AddCommand(newNoteDeleteCmd())
	cmd.AddCommand(newNoteExportCmd())
	cmd.AddCommand(newNoteTUICmd())

	return cmd
}
