// Package main runs the tabletodo service: it loads the profile named by
// APP_PROFILE, opens the configured table store, and serves the todo API
// until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/tabletodo-service/internal/adapters/http"
	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore"
	"github.com/jsamuelsen11/tabletodo-service/internal/app"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/health"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

const (
	telemetryFlushTimeout = 5 * time.Second
	healthCheckTimeout    = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if cfg.Store.Driver == config.DriverAzTable {
		logging.RouteAzureSDK(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(providers, logger)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, providers.Metrics)
	registerDependencies(injector, cfg, logger)

	// The store opens first so a bad driver config fails before serving.
	backend, err := do.Invoke[*tablestore.Backend](injector)
	if err != nil {
		return fmt.Errorf("opening table store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("table store close error", slog.Any("error", err))
		}
	}()

	if cfg.Store.AutoProvision {
		if err := backend.Store.EnsureTable(ctx); err != nil {
			return fmt.Errorf("provisioning table %q: %w", cfg.Store.TableName, err)
		}
		logger.Info("table provisioned", slog.String("table", cfg.Store.TableName))
	}

	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	registry := do.MustInvoke[ports.HealthRegistry](injector)
	for _, checker := range backend.Checkers {
		registry.Register(checker)
	}

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("serving todo API: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func flushTelemetry(providers *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()

	if err := providers.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*tablestore.Backend, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return tablestore.Open(context.Background(), cfg, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoStore, error) {
		return do.MustInvoke[*tablestore.Backend](i).Store, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		return app.NewTodoService(do.MustInvoke[ports.TodoStore](i), logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		return handlers.NewTodoHandler(do.MustInvoke[ports.TodoService](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		return handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i), healthCheckTimeout), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		stack := middleware.Stack(middleware.StackConfig{
			Logger:         logger,
			Metrics:        do.MustInvoke[*telemetry.Metrics](i),
			HandlerTimeout: cfg.Server.HandlerTimeout,
		})
		return adapthttp.NewRouter(
			do.MustInvoke[*handlers.TodoHandler](i),
			do.MustInvoke[*handlers.HealthHandler](i),
			stack...,
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		return adapthttp.NewServer(cfg.Server, do.MustInvoke[nethttp.Handler](i), logger), nil
	})
}
