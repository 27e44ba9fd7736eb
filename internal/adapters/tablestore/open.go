package tablestore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore/aztable"
	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore/memory"
	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore/postgres"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/httpclient"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Backend is an opened table store together with the health checkers that
// report on it.
type Backend struct {
	// Store is the instrumented store handed to the application layer.
	Store ports.TodoStore

	// Checkers should be registered with the health registry.
	Checkers []ports.HealthChecker

	close func() error
}

// Close releases the backend's connections. Safe to call on every driver.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open creates the backend named by cfg.Store.Driver. The aztable driver
// sends its requests through an httpclient.Client built from cfg.Client,
// which is also its health checker. Provisioning is left to the caller.
func Open(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sc := cfg.Store

	var b Backend
	switch sc.Driver {
	case config.DriverMemory:
		s := memory.NewStore(sc.PageSize)
		b.Store = s
		b.Checkers = []ports.HealthChecker{s}

	case config.DriverPostgres:
		s, err := postgres.Open(ctx, sc)
		if err != nil {
			return nil, err
		}
		b.Store = s
		b.Checkers = []ports.HealthChecker{s}
		b.close = s.Close

	case config.DriverAzTable:
		transport := httpclient.New(&cfg.Client, config.DriverAzTable, metrics, logger)
		s, err := aztable.Open(sc.AzTable.ConnectionString, sc.TableName, sc.PageSize, transport, logger)
		if err != nil {
			return nil, err
		}
		b.Store = s
		b.Checkers = []ports.HealthChecker{transport}

	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}

	b.Store = Instrument(b.Store, sc.Driver, metrics)

	logger.InfoContext(ctx, "table store opened",
		slog.String("driver", sc.Driver),
		slog.String("table", sc.TableName),
		slog.Int("page_size", sc.PageSize),
	)
	return &b, nil
}
