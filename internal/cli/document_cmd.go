package cli

import (
	"fmt"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var rootName string

	cmd := &cobra.Command{
		Use:   "new PATH",
		Short: "Create an empty test plan",
		Long: `Create a test plan holding only a root category and save it to PATH.
".xml" is appended when PATH does not already end in it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			sess, err := app.Docs.New(ctx, rootName)
			if err != nil {
				return err
			}
			if err := app.Docs.SaveAs(ctx, sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Created "+sess.Path))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootName, "root", "", "name of the root category (default \"Root\")")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the document tree with status and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDocument(sess.Path, sess.Doc))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write a copy of the document",
		Long: `Write the document to PATH without changing which file it is bound to.
The format follows the extension: .yaml or .yml for YAML, XML otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			if err := app.Docs.Export(commandContext(cmd), sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Exported to "+args[0]))
			return nil
		},
	}
}

func newRecentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := app.Docs.Recent(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecent(docs, app.now()))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "forget PATH",
		Short: "Drop a document from the recent list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Docs.Forget(commandContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Forgot "+args[0]))
			return nil
		},
	})
	return cmd
}
