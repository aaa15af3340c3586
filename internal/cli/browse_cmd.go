package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive tree editor",
		Long: `Browse and edit the document as a tree.

  ↑/↓            select            ←/→        collapse / expand
  ctrl+↑/ctrl+↓  move among siblings
  space          toggle performed  enter      edit fields
  c / t          add category / test case
  ctrl+d         remove            m, then p  move marked node under selection
  s              save              q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("%w; use 'atest show' for a printable tree", errNotInteractive)
			}
			return runBrowse(cmd, app)
		},
	}
}

func runBrowse(cmd *cobra.Command, app *App) error {
	sess, err := loadSession(cmd, app)
	if err != nil {
		return err
	}
	final, err := app.runProgram(newBrowseModel(commandContext(cmd), app, sess))
	if err != nil {
		return err
	}
	if m, ok := final.(*browseModel); ok && m.sess.Dirty {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Discarded unsaved changes to "+filepath.Base(sess.Path)))
	}
	return nil
}
