package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	profile   string
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "tabletodoctl",
		Short: "Administer the todo table store",
		Long: `tabletodoctl provisions and inspects the table store behind the
tabletodo service, using the service's own configuration profiles.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.profile, "profile", "p", os.Getenv("APP_PROFILE"),
		"configuration profile (defaults to $APP_PROFILE)")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs",
		"directory holding base.yaml and the profile files")

	root.AddCommand(newProvisionCmd(opts))
	root.AddCommand(newListCmd(opts))

	return root
}

// openBackend loads configuration for the selected profile and opens the
// store backend it names. Logs go to the command's stderr.
func (o *globalOptions) openBackend(ctx context.Context, cmd *cobra.Command) (*config.Config, *tablestore.Backend, *slog.Logger, error) {
	if o.profile == "" {
		return nil, nil, nil, errors.New("no profile: pass --profile or set APP_PROFILE")
	}

	cfg, err := config.Load(o.profile, config.WithConfigDir(o.configDir))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if cfg.Store.Driver == config.DriverAzTable {
		logging.RouteAzureSDK(logger)
	}

	backend, err := tablestore.Open(ctx, cfg, nil, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening table store: %w", err)
	}
	return cfg, backend, logger, nil
}
