package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/middleware"
)

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	// Headers as a client updating a todo would send them.
	headers := http.Header{
		"Authorization":    {"Bearer eyJhbGciOiJIUzI1NiJ9.e30.sig"},
		"Cookie":           {"session=abc123"},
		"X-Api-Key":        {"tt-live-91f2"},
		"Content-Type":     {"application/json"},
		"Accept":           {"application/json", "application/problem+json"},
		"X-Request-Id":     {"req-42"},
		"X-Correlation-Id": {"nightly-import"},
	}

	attrs := middleware.RedactHeaders(headers)

	want := []struct{ key, value string }{
		{"Accept", "application/json,application/problem+json"},
		{"Authorization", "[REDACTED]"},
		{"Content-Type", "application/json"},
		{"Cookie", "[REDACTED]"},
		{"X-Api-Key", "[REDACTED]"},
		{"X-Correlation-Id", "nightly-import"},
		{"X-Request-Id", "req-42"},
	}
	if len(attrs) != len(want) {
		t.Fatalf("len(attrs) = %d, want %d", len(attrs), len(want))
	}
	for i, w := range want {
		if attrs[i].Key != w.key || attrs[i].Value.String() != w.value {
			t.Errorf("attrs[%d] = %s=%q, want %s=%q", i, attrs[i].Key, attrs[i].Value.String(), w.key, w.value)
		}
	}
}

func TestRedactHeaders_Empty(t *testing.T) {
	t.Parallel()

	if attrs := middleware.RedactHeaders(http.Header{}); len(attrs) != 0 {
		t.Errorf("len(attrs) = %d, want 0", len(attrs))
	}
}

func TestLogging_DebugHeadersAreRedacted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/tabletodo", strings.NewReader(`{"TaskDescription":"buy milk"}`))
	req.Header.Set("Authorization", "Bearer secret-token-value")
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, "secret-token-value") {
		t.Errorf("log output leaks the bearer token: %q", out)
	}
	if !strings.Contains(out, "Authorization=[REDACTED]") {
		t.Errorf("log output = %q, want Authorization=[REDACTED]", out)
	}
	if !strings.Contains(out, "Content-Type=application/json") {
		t.Errorf("log output = %q, want Content-Type=application/json", out)
	}
}
