package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/tabletodo-service/internal/app"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the first page of todos as JSON",
		Long: `list prints the todos the service's GET /tabletodo would return: the
first page of the shared partition, in store order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, backend, logger, err := opts.openBackend(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			todos, err := app.NewTodoService(backend.Store, logger).ListTodos(ctx)
			if err != nil {
				return fmt.Errorf("listing todos: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.ToTodoListResponse(todos))
		},
	}
}
