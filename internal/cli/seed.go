package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ghostname-service/internal/persistence"
	"github.com/spec-kit/ghostname-service/internal/repository"
	"github.com/spec-kit/ghostname-service/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Source    string
	BatchSize int
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load ghost names from a JSON or YAML file or an s3:// object",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			location := opts.Source
			if location == "" {
				location = cfg.Seed.Source
			}
			batchSize := opts.BatchSize
			if batchSize <= 0 {
				batchSize = cfg.Seed.BatchSize
			}

			ctx := cmd.Context()
			src, err := seed.OpenSource(ctx, cfg.Seed, location)
			if err != nil {
				return err
			}

			db, err := persistence.Open(ctx, cfg.Store, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seed.NewLoader(repository.NewStore(db.DB), logger, batchSize).Load(ctx, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "read %d, inserted %d, skipped %d\n", res.Read, res.Inserted, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "inventory path or s3://bucket/key (default DATA_GHOSTS_FILE)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "names per transaction (default SEED_BATCH_SIZE)")

	return cmd
}
