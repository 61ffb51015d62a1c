package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmseabra/MolDB-Screening/internal/application/screening"
)

func newTrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the surrogate model on the scored dataset and report its accuracy",
		Long: "Loads the dataset, drops physically invalid records, fits the configured\n" +
			"random-forest surrogate on a training split, and prints the held-out\n" +
			"evaluation. No library scan or selection is performed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			svc := screening.NewService(cliCtx.Config, cliCtx.Logger)
			lib, err := svc.LoadLibrary()
			if err != nil {
				return err
			}
			filtered := svc.Filter(lib)

			_, report, err := svc.Train(cmd.Context(), filtered)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
