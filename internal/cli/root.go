package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// App holds the collaborators every command needs.
type App struct {
	Docs     service.DocumentService
	Registry *domain.Registry

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// RunProgram and RunForm start the terminal UI. Tests replace them.
	RunProgram func(m tea.Model) (tea.Model, error)
	RunForm    func(f *huh.Form) error

	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) runProgram(m tea.Model) (tea.Model, error) {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

// NewRootCmd creates the top-level "atest" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "atest",
		Short: "Hierarchical test-plan editor",
		Long: `Edit test plans made of nested categories and test cases.

Commands act on the document given with --file, or on the most recently
opened document when --file is omitted. Run without arguments on a terminal
to open the interactive browser.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runBrowse(cmd, app)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringP("file", "f", "", "test plan document (default: last opened)")

	root.AddCommand(
		newNewCmd(app),
		newShowCmd(app),
		newFieldsCmd(app),
		newInspectCmd(app),
		newGetCmd(app),
		newSetCmd(app),
		newAddCmd(app),
		newRemoveCmd(app),
		newMoveCmd(app),
		newReparentCmd(app),
		newExpandCmd(app, true),
		newExpandCmd(app, false),
		newFindCmd(app),
		newExportCmd(app),
		newRecentCmd(app),
		newEditCmd(app),
		newBrowseCmd(app),
	)
	return root
}

// loadSession opens the --file document, or the last opened one.
func loadSession(cmd *cobra.Command, app *App) (*service.Session, error) {
	ctx := commandContext(cmd)
	path, _ := cmd.Flags().GetString("file")
	if path != "" {
		return app.Docs.Open(ctx, path)
	}
	sess, err := app.Docs.OpenLast(ctx)
	if errors.Is(err, service.ErrNoRecent) {
		return nil, fmt.Errorf("no document to work on: pass --file or create one with 'atest new PATH'")
	}
	return sess, err
}

// mutate loads the document, applies fn and saves the result.
func mutate(cmd *cobra.Command, app *App, fn func(*domain.Document) error) (*service.Session, error) {
	sess, err := loadSession(cmd, app)
	if err != nil {
		return nil, err
	}
	if err := sess.Apply(fn); err != nil {
		return nil, err
	}
	if err := app.Docs.Save(commandContext(cmd), sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
