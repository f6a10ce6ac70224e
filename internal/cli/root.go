package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/config"
	"github.com/spec-kit/ghostname-service/internal/observability"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	Driver   string
}

// NewRootCommand creates the root command for the ghostd binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "ghostd",
		Short:         "ghostd - ghost name reservation service",
		Long:          "Serves the ghost name roster, offers candidate names to signed-in users and commits their choice.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "override STORE_DRIVER (postgres|sqlite)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// load reads the environment configuration and applies flag overrides.
func (o *RootOptions) load() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.LogLevel != "" {
		cfg.Logger.Level = o.LogLevel
	}
	if o.Driver != "" {
		cfg.Store.Driver = strings.ToLower(o.Driver)
	}
	return cfg, nil
}

func (o *RootOptions) bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
