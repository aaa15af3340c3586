package cli

import (
	"fmt"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/spf13/cobra"
)

func newInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect NODE",
		Short: "Show a node's fields and status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			n, err := resolveNode(sess.Doc, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNodeInspect(sess.Doc, n))
			return nil
		},
	}
}

func newGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get NODE FIELD",
		Short: "Print one field value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, app)
			if err != nil {
				return err
			}
			n, err := resolveNode(sess.Doc, args[0])
			if err != nil {
				return err
			}
			v, err := n.GetString(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set NODE FIELD VALUE",
		Short: "Change one field value",
		Long: `Parse VALUE according to the field's type and store it. Booleans take
"true" or "false"; dates take YYYY-MM-DD, or "" to clear.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				n, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				name = n.Name()
				return n.Set(args[1], args[2])
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Updated %s of %q", args[1], name)))
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var name string
	variant := newVariantFlag(app.Registry, domain.VariantTestCase)

	cmd := &cobra.Command{
		Use:   "add PARENT",
		Short: "Append a new node under PARENT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr, added string
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				parent, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				n, err := doc.Registry().New(variant.Variant())
				if err != nil {
					return err
				}
				if name != "" {
					n.SetName(name)
				}
				if err := doc.AddChild(parent, n); err != nil {
					return err
				}
				parent.SetExpanded(true)
				addr, added = nodeAddress(doc, n), n.Name()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added %s %q at %s", variant.Variant(), added, addr)))
			return nil
		},
	}

	cmd.Flags().Var(variant, "variant", "node variant (Category|TestCase)")
	cmd.Flags().StringVar(&name, "name", "", "node name (default depends on variant)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove NODE",
		Short: "Delete a node and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && !yes {
				confirmed := false
				if err := app.runForm(confirmForm(fmt.Sprintf("Remove %s and its subtree?", args[0]), &confirmed)); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			var removed string
			var count int
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				n, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				removed = n.Name()
				domain.Walk(n, func(*domain.Node, int) bool {
					count++
					return true
				})
				return doc.Remove(n)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Removed %q (%d nodes)", removed, count)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var by int
	var up, down bool

	cmd := &cobra.Command{
		Use:   "move NODE",
		Short: "Shift a node among its siblings",
		Long: `Shift NODE by --by positions within its parent; negative moves toward
the front. The position is clamped to the first and last slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := by
			switch {
			case up && down:
				return fmt.Errorf("--up and --down are mutually exclusive")
			case up:
				delta = -1
			case down:
				delta = 1
			}
			if delta == 0 {
				return fmt.Errorf("nothing to do: pass --by N, --up or --down")
			}

			var addr string
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				n, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				if err := doc.MoveWithinParent(n, delta); err != nil {
					return err
				}
				addr = nodeAddress(doc, n)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Moved to "+addr))
			return nil
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "positions to move (negative moves up)")
	cmd.Flags().BoolVar(&up, "up", false, "move one position up")
	cmd.Flags().BoolVar(&down, "down", false, "move one position down")
	return cmd
}

func newReparentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reparent NODE PARENT",
		Short: "Move a node under a different container",
		Long:  `Detach NODE with its subtree and append it as the last child of PARENT.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr string
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				n, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				parent, err := resolveNode(doc, args[1])
				if err != nil {
					return err
				}
				if err := doc.Reparent(n, parent); err != nil {
					return err
				}
				parent.SetExpanded(true)
				addr = nodeAddress(doc, n)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Moved to "+addr))
			return nil
		},
	}
}

func newExpandCmd(app *App, expand bool) *cobra.Command {
	use, short := "expand NODE", "Mark a container as expanded"
	if !expand {
		use, short = "collapse NODE", "Mark a container as collapsed"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := mutate(cmd, app, func(doc *domain.Document) error {
				n, err := resolveNode(doc, args[0])
				if err != nil {
					return err
				}
				if !n.IsContainer() {
					return fmt.Errorf("%w: %q has no children to show", domain.ErrInvalidTarget, n.Name())
				}
				n.SetExpanded(expand)
				return nil
			})
			return err
		},
	}
}
