package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmseabra/MolDB-Screening/internal/application/screening"
)

func newDockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dock",
		Short: "Dock every ligand in the ligand directory with AutoDock Vina",
		Long: "Runs vina over each PDBQT file in docking.ligand_dir against the\n" +
			"configured receptor and search box, writing pose files to\n" +
			"docking.output_dir. Ligands that fail to dock are skipped and reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.Config.ValidateDockingInputs(); err != nil {
				return err
			}

			svc := screening.NewService(cliCtx.Config, cliCtx.Logger)
			batch, err := svc.Dock(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docked %d ligands (%d failed)\n", len(batch.Results), len(batch.Failed))
			for _, res := range batch.Results {
				best := res.Best()
				fmt.Fprintf(out, "  %-24s total=%8.3f inter=%8.3f intra=%8.3f torsional=%8.3f unbound=%8.3f\n",
					res.Ligand, best.Total, best.Inter, best.Intra, best.Torsional, best.Unbound)
			}
			for name := range batch.Failed {
				fmt.Fprintf(out, "  %-24s FAILED\n", name)
			}
			return nil
		},
	}
}
