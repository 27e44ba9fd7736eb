// Package middleware holds the inbound pipeline of the todo API. Stack
// returns it in order; each element is a func(http.Handler) http.Handler
// mounted on the chi router with Use.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
)

// unmatchedRoute is the http.route value for requests no route matched, so
// arbitrary paths never become span names or metric labels.
const unmatchedRoute = "unmatched"

// StackConfig carries what the pipeline needs from the rest of the service.
type StackConfig struct {
	Logger *slog.Logger
	// Metrics may be nil, in which case server metrics are skipped.
	Metrics *telemetry.Metrics
	// HandlerTimeout bounds each todo handler; zero or negative disables it.
	HandlerTimeout time.Duration
}

// Stack returns the todo API middleware, outermost first:
//
//	RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Recovery → handler
//
// Recovery is innermost so a panicking handler becomes a 500 inside the
// goroutine Timeout runs it on, and the span, the server metrics and the
// completion log all record that 500 under the request's IDs.
func Stack(cfg StackConfig) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestID(),
		CorrelationID(),
		OpenTelemetry(cfg.Metrics),
		Logging(cfg.Logger),
		Timeout(cfg.HandlerTimeout),
		Recovery(),
	}
}

// routePattern returns the chi pattern that served r, such as
// "/tabletodo/{id}", or unmatchedRoute. It is only meaningful once the
// router has run.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}

// statusRecorder remembers the status and body size a handler produced,
// for the span, the metrics and the completion log.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	bytes       int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status and forwards it; later calls are
// dropped, as net/http would.
func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.status = code
	sr.wroteHeader = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
