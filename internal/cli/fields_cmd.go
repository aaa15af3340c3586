package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/spf13/cobra"
)

func newFieldsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fields [VARIANT]",
		Short: "Describe the editable fields of each node variant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants := app.Registry.Variants()
			if len(args) == 1 {
				v, err := parseVariant(app.Registry, args[0])
				if err != nil {
					return err
				}
				variants = []domain.Variant{v}
			}

			parts := make([]string, 0, len(variants))
			for _, v := range variants {
				out, err := formatter.FormatSchema(app.Registry, v)
				if err != nil {
					return err
				}
				parts = append(parts, out)
			}
			fmt.Fprint(cmd.OutOrStdout(), strings.Join(parts, "\n"))
			return nil
		},
	}
}
