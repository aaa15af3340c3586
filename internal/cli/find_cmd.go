package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/alexanderramin/atest/internal/query"
	"github.com/spf13/cobra"
)

func newFindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find EXPR",
		Short: "List nodes matching an expression",
		Long: `List the nodes for which EXPR is true, in tree order.

Every field name is a variable (dates are "YYYY-MM-DD" strings, "" when
unset), plus variant, leaf, done, path, depth and children.

  atest find '!performed && leaf'
  atest find 'name contains "login" || executed_on >= "2025-01-01"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := query.Compile(app.Registry, strings.Join(args, " "))
			if err != nil {
				return err
			}
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			matches, err := filter.Select(sess.Doc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMatches(sess.Doc, matches))
			return nil
		},
	}
}

