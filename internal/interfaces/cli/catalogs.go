package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/dataset"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

func newCatalogsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs [compound-id ...]",
		Short: "Inspect the vendor catalog workbook",
		Long: "Loads the xlsx catalog configured at dataset.catalog_path and prints how\n" +
			"many compounds it lists. With compound IDs as arguments, prints the\n" +
			"vendor listings for each.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			path := cliCtx.Config.Dataset.CatalogPath
			if path == "" {
				return errors.Configuration("dataset.catalog_path is not set")
			}

			catalog, err := dataset.LoadCatalog(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalog %s lists %d compounds\n", path, catalog.Len())
			for _, id := range args {
				entries := catalog.Lookup(id)
				if len(entries) == 0 {
					fmt.Fprintf(out, "  %s: not listed\n", id)
					continue
				}
				parts := make([]string, len(entries))
				for i, e := range entries {
					if e.CatalogID != "" {
						parts[i] = fmt.Sprintf("%s (%s)", e.Vendor, e.CatalogID)
					} else {
						parts[i] = e.Vendor
					}
				}
				fmt.Fprintf(out, "  %s: %s\n", id, strings.Join(parts, ", "))
			}
			return nil
		},
	}
}
