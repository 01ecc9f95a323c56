package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdnote/internal/editor"
	"github.com/mithrel/mdnote/internal/notes"
)

func newNoteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a new note from args, stdin or $EDITOR",
		Long: `Add a new note.

With arguments the note text is the arguments joined by spaces. Without
arguments the text is read from stdin when it is not a terminal, and from
$EDITOR otherwise. Blank input creates nothing.`,
		Args: cobra.ArbitraryArgs,
		RunE: runNoteAdd,
	}
}

// runNoteAdd is shared by "note" and "note add".
func runNoteAdd(cmd *cobra.Command, args []string) error {
	app := getApp(cmd)

	text, err := readNoteInput(cmd, args)
	if err != nil {
		return err
	}
	n, act, err := app.Notes.Save(cmd.Context(), "", text)
	if err != nil {
		return err
	}
	if act == notes.ActionNone {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Note aborted: empty content.")
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", n.ID, n.Title())
	return nil
}

func readNoteInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if !isTerminal(in) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	text, _, err := editor.Edit("", "")
	return text, err
}

// isTerminal reports whether f is an interactive terminal. Anything that is
// not an *os.File counts as piped input.
func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
