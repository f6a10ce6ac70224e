package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/persistence"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg.Store.RunMigrations = true
			db, err := persistence.Open(cmd.Context(), cfg.Store, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("migrations applied", zap.String("driver", db.Driver))
			return nil
		},
	}
}
