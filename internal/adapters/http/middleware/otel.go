package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
)

const tracerName = "tabletodo-service/http"

// OpenTelemetry traces each todo request as a server span, continuing any
// W3C trace the caller sent, and records the http.server.request metrics.
//
// Spans and metric labels use the chi route ("HTTP PUT /tabletodo/{id}") or
// "unmatched", never the raw path. The todo ID goes on the span as todo.id
// only. A 5xx (store unreachable, handler failure) marks the span as an
// error; 404 and 409 are ordinary todo outcomes and do not.
//
// A nil metrics records spans only.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					telemetry.AttrHTTPMethod.String(r.Method),
					telemetry.AttrHTTPURL.String(r.URL.String()),
				),
			)
			defer span.End()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName("HTTP " + r.Method + " " + route)
			span.SetAttributes(
				telemetry.AttrHTTPRoute.String(route),
				telemetry.AttrHTTPStatus.Int(rec.status),
			)
			if id := chi.URLParam(r, "id"); id != "" {
				span.SetAttributes(telemetry.AttrTodoID.String(id))
			}
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}

			recordServerMetrics(ctx, metrics, r.Method, route, start, rec.status)
		})
	}
}

func recordServerMetrics(ctx context.Context, metrics *telemetry.Metrics, method, route string, start time.Time, status int) {
	if metrics == nil {
		return
	}

	result := "success"
	if status >= http.StatusBadRequest {
		result = "error"
	}
	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(result),
	)

	metrics.ServerRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}
