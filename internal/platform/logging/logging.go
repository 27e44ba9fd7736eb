// Package logging builds the service's slog logger, carries it through
// request contexts, and routes the Azure SDK's own diagnostics into it.
//
// The logger is built once from the log section of the config:
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//
// Inbound middleware stores a request-scoped child in the context, and
// store adapters and services read it back:
//
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("request_id", id)))
//	logging.FromContext(ctx).WarnContext(ctx, "retrying table store request")
//
// Failures are logged with the operation, the todo ID when there is one, and
// the full error chain:
//
//	logger.ErrorContext(ctx, "failed to update todo",
//	    slog.String("operation", "UpdateTodo"),
//	    slog.String("todo_id", id),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
)

type contextKey struct{}

// New returns a logger writing to w at the given level ("debug", "info",
// "warn" or "error", case-insensitive; anything else is info). format "text"
// selects the text handler, any other value JSON. Every record passes through
// the redaction layer, and debug level adds source locations.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	switch lvl {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
		return lvl
	default:
		return slog.LevelInfo
	}
}

// RouteAzureSDK sends the Azure SDK's diagnostic events to logger under the
// "azure_sdk" component. Failed responses and retries are always routed;
// raw request and response events only when logger has debug enabled.
//
// The SDK listener is process-global and not safe to change while clients
// are in use, so this is called once at startup before the table store is
// opened.
func RouteAzureSDK(logger *slog.Logger) {
	events := []azlog.Event{azlog.EventResponseError, azlog.EventRetryPolicy}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		events = append(events, azlog.EventRequest, azlog.EventResponse)
	}
	azlog.SetEvents(events...)
	azlog.SetListener(azureSDKListener(logger))
}

// azureSDKListener maps SDK event classes onto slog levels.
func azureSDKListener(logger *slog.Logger) func(azlog.Event, string) {
	sdk := logger.With(slog.String("component", "azure_sdk"))
	return func(event azlog.Event, msg string) {
		level := slog.LevelDebug
		switch event {
		case azlog.EventResponseError:
			level = slog.LevelWarn
		case azlog.EventRetryPolicy:
			level = slog.LevelInfo
		}
		sdk.Log(context.Background(), level, msg, slog.String("event", string(event)))
	}
}
