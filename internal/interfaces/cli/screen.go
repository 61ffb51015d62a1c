package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmseabra/MolDB-Screening/internal/application/screening"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/database/postgres/repositories"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/dataset"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/prometheus"
)

func newScreenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "screen",
		Short: "Run the full screening pipeline and select the top-K candidates",
		Long: "Loads the scored dataset, trains the surrogate, scans the whole library,\n" +
			"selects the top-K candidates, and writes the annotated result tables.\n" +
			"When database persistence is enabled the run is stored as well.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config

			svc := screening.NewService(cfg, cliCtx.Logger)

			if cfg.Dataset.CatalogPath != "" {
				catalog, err := dataset.LoadCatalog(cfg.Dataset.CatalogPath)
				if err != nil {
					return err
				}
				svc.SetCatalog(catalog)
			}

			var metricsDone context.CancelFunc
			if cfg.Metrics.Enabled {
				m := prometheus.NewScreeningMetrics()
				svc.SetMetrics(m)

				var metricsCtx context.Context
				metricsCtx, metricsDone = context.WithCancel(cmd.Context())
				go func() {
					if err := m.Serve(metricsCtx, cfg.Metrics.Listen, cliCtx.Logger); err != nil {
						cliCtx.Logger.Warn("metrics endpoint stopped", logging.Err(err))
					}
				}()
				defer metricsDone()
			}

			if cfg.Database.Enabled {
				dbURL := postgres.DSN(cfg.Database)
				migrationsURL := "file://" + cfg.Database.MigrationPath
				if err := postgres.RunMigrations(dbURL, migrationsURL); err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(dbURL, migrationsURL)
				if err != nil {
					return err
				}
				if dirty {
					return fmt.Errorf("database schema is dirty at migration %d; resolve before screening", version)
				}
				conn, err := postgres.NewConnection(cmd.Context(), cfg.Database, cliCtx.Logger)
				if err != nil {
					return err
				}
				defer conn.Close()
				if err := conn.HealthCheck(cmd.Context()); err != nil {
					return err
				}
				cliCtx.Logger.Info("result store ready", logging.Int("schema_version", int(version)))
				svc.SetStore(repositories.NewScreeningRepository(conn.Pool(), cliCtx.Logger))
			}

			report, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Render())
			return nil
		},
	}
}
