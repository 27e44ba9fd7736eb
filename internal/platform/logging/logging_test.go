package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

func TestNew_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{`"level":"INFO"`, `"msg":"todo created"`, `"todo_id":"0f8e3a4c"`}},
		{format: "text", want: []string{"level=INFO", `msg="todo created"`, "todo_id=0f8e3a4c"}},
		{format: "xml", want: []string{`"level":"INFO"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", tt.format, &buf).Info("todo created", slog.String("todo_id", "0f8e3a4c"))

			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output = %q, want it to contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level      string
		emit       slog.Level
		wantLogged bool
		wantSource bool
	}{
		{level: "debug", emit: slog.LevelDebug, wantLogged: true, wantSource: true},
		{level: "DEBUG", emit: slog.LevelDebug, wantLogged: true, wantSource: true},
		{level: "info", emit: slog.LevelDebug, wantLogged: false},
		{level: "info", emit: slog.LevelInfo, wantLogged: true},
		{level: "error", emit: slog.LevelWarn, wantLogged: false},
		{level: "verbose", emit: slog.LevelDebug, wantLogged: false},
		{level: "verbose", emit: slog.LevelInfo, wantLogged: true},
	}

	for _, tt := range tests {
		t.Run(tt.level+" emits "+tt.emit.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New(tt.level, "json", &buf).Log(context.Background(), tt.emit, "listing todos")

			if logged := buf.Len() > 0; logged != tt.wantLogged {
				t.Fatalf("logged = %v, want %v (output %q)", logged, tt.wantLogged, buf.String())
			}
			if source := strings.Contains(buf.String(), `"source"`); tt.wantLogged && source != tt.wantSource {
				t.Errorf("source present = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	if got := logging.FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext on a bare context did not return slog.Default()")
	}

	var buf bytes.Buffer
	base := logging.New("info", "json", &buf)
	scoped := base.With(slog.String("request_id", "req-1"))

	ctx := logging.WithLogger(context.Background(), base)
	ctx = logging.WithLogger(ctx, scoped)

	logging.FromContext(ctx).Info("todo deleted")
	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Errorf("output = %q, want the innermost request-scoped logger", buf.String())
	}
}

func TestNew_Redacts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		attr   slog.Attr
		secret string
	}{
		{name: "authorization header", attr: slog.String("authorization", "Bearer supersecret-token"), secret: "supersecret-token"},
		{name: "password field", attr: slog.String("password", "hunter2"), secret: "hunter2"},
		{name: "connection string field", attr: slog.String("connection_string", "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=c2VjcmV0a2V5"), secret: "c2VjcmV0a2V5"},
		{name: "dsn field", attr: slog.String("dsn", "postgres://todo:hunter2@db:5432/todos"), secret: "hunter2"},
		{name: "account key field", attr: slog.String("account_key", "c2VjcmV0a2V5"), secret: "c2VjcmV0a2V5"},
		{name: "bearer in free text", attr: slog.String("raw_header", "Bearer eyJhbGciOiJSUzI1NiJ9"), secret: "eyJhbGciOiJSUzI1NiJ9"},
		{name: "account key in error text", attr: slog.String("error", "bad config AccountName=acct;AccountKey=c2VjcmV0a2V5;EndpointSuffix=core.windows.net"), secret: "c2VjcmV0a2V5"},
		{name: "dsn password in error text", attr: slog.String("error", "dial postgres://todo:hunter2@db:5432/todos failed"), secret: "hunter2"},
		{name: "sas signature in store url", attr: slog.String("url", "https://acct.table.core.windows.net/todos()?sv=2019-02-02&sig=c2lnbmF0dXJl&se=2026"), secret: "c2lnbmF0dXJl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", "json", &buf).Info("opening table store", tt.attr)

			if strings.Contains(buf.String(), tt.secret) {
				t.Errorf("output = %q, want %q redacted", buf.String(), tt.secret)
			}
			if !strings.Contains(buf.String(), "[REDACTED]") {
				t.Errorf("output = %q, want a [REDACTED] marker", buf.String())
			}
		})
	}
}

func TestNew_KeepsTodoFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("todo updated",
		slog.String("todo_id", "0f8e3a4c9d2b4e6fa1c3b5d7e9f01234"),
		slog.String("path", "/tabletodo/0f8e3a4c9d2b4e6fa1c3b5d7e9f01234"),
		slog.String("table", "todos"),
	)

	for _, want := range []string{"0f8e3a4c9d2b4e6fa1c3b5d7e9f01234", "/tabletodo/", `"table":"todos"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output = %q, want %q kept", buf.String(), want)
		}
	}
	if strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("output = %q, want nothing redacted", buf.String())
	}
}
