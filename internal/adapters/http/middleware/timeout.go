package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

// errHandlerTimeout answers a todo request whose handler overran its budget,
// usually because a table store call is still waiting on the backend.
var errHandlerTimeout = fmt.Errorf("todo handler: %w", context.DeadlineExceeded)

// Timeout bounds each todo handler to d. The handler's context carries the
// deadline, so store calls made with it give up on their own. If the handler
// has not finished by then, the client gets a 504 problem response and
// anything the handler writes afterwards is discarded.
//
// A non-positive d disables the middleware.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			buf := &bufferedResponse{header: make(http.Header)}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(buf, r.WithContext(ctx))
			}()

			select {
			case <-done:
				buf.mu.Lock()
				defer buf.mu.Unlock()
				buf.copyTo(w)
			case <-ctx.Done():
				buf.mu.Lock()
				defer buf.mu.Unlock()
				buf.timedOut = true

				logging.FromContext(ctx).LogAttrs(ctx, slog.LevelWarn, "todo handler timed out",
					slog.String("method", r.Method),
					slog.Duration("timeout", d),
				)
				dto.WriteErrorResponse(w, r, errHandlerTimeout)
			}
		})
	}
}

// bufferedResponse holds a handler's response until Timeout decides whether
// it reaches the client. Once timedOut is set, writes fail with
// http.ErrHandlerTimeout.
type bufferedResponse struct {
	mu       sync.Mutex
	header   http.Header
	status   int
	body     []byte
	timedOut bool
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == 0 && !b.timedOut {
		b.status = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	b.body = append(b.body, p...)
	return len(p), nil
}

// copyTo sends the buffered response to w. Callers hold b.mu.
func (b *bufferedResponse) copyTo(w http.ResponseWriter) {
	maps.Copy(w.Header(), b.header)
	if b.status != 0 {
		w.WriteHeader(b.status)
	}
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}
