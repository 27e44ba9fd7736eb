package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

// loggedTodoRouter serves the todo routes behind RequestID, CorrelationID
// and Logging. Each handler answers with status and writes body.
func loggedTodoRouter(buf *bytes.Buffer, status int, body string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(), middleware.CorrelationID(), middleware.Logging(testLogger(buf)))
	answer := func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("handling todo")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
	r.Get("/tabletodo", answer)
	r.Post("/tabletodo", answer)
	r.Get("/tabletodo/{id}", answer)
	r.Put("/tabletodo/{id}", answer)
	r.Delete("/tabletodo/{id}", answer)
	return r
}

func TestLogging_CompletionEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		want      []string
		wantNoID  bool
		wantError bool
	}{
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/tabletodo",
			status:   http.StatusOK,
			body:     "[]",
			want:     []string{"method=GET", "route=/tabletodo", "status=200", "bytes=2"},
			wantNoID: true,
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/tabletodo",
			status:   http.StatusOK,
			body:     `{"id":"` + testTodoID + `"}`,
			want:     []string{"method=POST", "status=200", "bytes=41"},
			wantNoID: true,
		},
		{
			name:   "missing todo",
			method: http.MethodGet,
			path:   "/tabletodo/" + testTodoID,
			status: http.StatusNotFound,
			want:   []string{"route=/tabletodo/{id}", "todo_id=" + testTodoID, "status=404", "bytes=0"},
		},
		{
			name:      "store unreachable on update",
			method:    http.MethodPut,
			path:      "/tabletodo/" + testTodoID,
			status:    http.StatusBadGateway,
			body:      "upstream",
			want:      []string{"level=ERROR", "todo_id=" + testTodoID, "status=502", "bytes=8"},
			wantError: true,
		},
		{
			name:     "unknown path",
			method:   http.MethodGet,
			path:     "/tabletodo/" + testTodoID + "/extra",
			want:     []string{"route=unmatched", "status=404"},
			wantNoID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rec := httptest.NewRecorder()
			loggedTodoRouter(&buf, tt.status, tt.body).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			var completion string
			for line := range strings.SplitSeq(buf.String(), "\n") {
				if strings.Contains(line, `msg="request completed"`) {
					completion = line
				}
			}
			if completion == "" {
				t.Fatalf("log = %q, want a completion entry", buf.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(completion, want) {
					t.Errorf("completion = %q, want %q", completion, want)
				}
			}
			if tt.wantNoID && strings.Contains(completion, "todo_id=") {
				t.Errorf("completion = %q, want no todo_id", completion)
			}
			if !tt.wantError && strings.Contains(completion, "level=ERROR") {
				t.Errorf("completion = %q, want info level", completion)
			}
			if !strings.Contains(completion, "duration=") {
				t.Errorf("completion = %q, want a duration", completion)
			}
		})
	}
}

func TestLogging_HandlerLoggerCarriesIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodDelete, "/tabletodo/"+testTodoID, http.NoBody)
	req.Header.Set("X-Request-ID", "req-delete-1")
	req.Header.Set("X-Correlation-ID", "corr-cleanup-7")
	loggedTodoRouter(&buf, http.StatusOK, "").ServeHTTP(httptest.NewRecorder(), req)

	for _, msg := range []string{`msg="request started"`, `msg="handling todo"`, `msg="request completed"`} {
		var line string
		for l := range strings.SplitSeq(buf.String(), "\n") {
			if strings.Contains(l, msg) {
				line = l
			}
		}
		if !strings.Contains(line, "request_id=req-delete-1") || !strings.Contains(line, "correlation_id=corr-cleanup-7") {
			t.Errorf("%s entry = %q, want both IDs", msg, line)
		}
	}
}

func TestLogging_DebugRedactsHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/tabletodo", http.NoBody)
	req.Header.Set("Authorization", "Bearer function-key-123")
	loggedTodoRouter(&buf, http.StatusOK, "[]").ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `msg="request headers"`) {
		t.Fatalf("log = %q, want a debug header entry", buf.String())
	}
	if strings.Contains(buf.String(), "function-key-123") {
		t.Errorf("log = %q, want the Authorization value redacted", buf.String())
	}
}
