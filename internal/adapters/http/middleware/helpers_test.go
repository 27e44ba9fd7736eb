package middleware_test

import (
	"bytes"
	"log/slog"
)

// testTodoID is a row key in the format the service generates.
const testTodoID = "0f8e3a4c9d2b4e6fa1c3b5d7e9f01234"

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
