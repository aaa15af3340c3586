package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("this command needs an interactive terminal")

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit NODE",
		Short: "Edit every field of a node in a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("%w; use 'atest set NODE FIELD VALUE' instead", errNotInteractive)
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			n, err := resolveNode(sess.Doc, args[0])
			if err != nil {
				return err
			}

			form := newNodeForm(n)
			if err := app.runForm(form.Form); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
				return err
			}

			changed, err := form.Apply()
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No changes."))
				return nil
			}
			sess.Dirty = true
			if err := app.Docs.Save(commandContext(cmd), sess); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Saved %q", n.Name())))
			return nil
		},
	}
}
