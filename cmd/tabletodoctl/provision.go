package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProvisionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the todo table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, backend, _, err := opts.openBackend(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			if err := backend.Store.EnsureTable(ctx); err != nil {
				return fmt.Errorf("provisioning table %q: %w", cfg.Store.TableName, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "table %q ready (driver %s)\n", cfg.Store.TableName, cfg.Store.Driver)
			return nil
		},
	}
}
