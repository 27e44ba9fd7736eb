package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

// errHandlerPanic is what the client sees for a panicking todo handler. The
// panic value and stack stay in the log and the span.
var errHandlerPanic = errors.New("internal server error")

// Recovery returns middleware that turns a panic in a todo handler into an
// RFC 9457 500 response. The panic is logged through the request's logger
// with the route and todo ID, and recorded on the request span. If the
// handler already started its response, only the log and span are written.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				ctx := r.Context()
				span := trace.SpanFromContext(ctx)
				span.RecordError(fmt.Errorf("%w: %v", errHandlerPanic, v))
				span.SetStatus(codes.Error, "panic")

				attrs := []slog.Attr{
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("route", routePattern(r)),
				}
				if id := chi.URLParam(r, "id"); id != "" {
					attrs = append(attrs, slog.String("todo_id", id))
				}
				logging.FromContext(ctx).LogAttrs(ctx, slog.LevelError, "panic recovered", attrs...)

				if !rec.wroteHeader {
					dto.WriteErrorResponse(rec, r, errHandlerPanic)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
