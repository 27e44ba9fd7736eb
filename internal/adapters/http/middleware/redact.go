package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

const redactedValue = "[REDACTED]"

// RedactHeaders turns request headers into slog attributes for the debug
// "request headers" line, sorted by name so repeated requests log
// identically. Credentials named in logging.SensitiveHeaders are replaced
// with "[REDACTED]"; multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	names := slices.Sorted(maps.Keys(headers))

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		value := redactedValue
		if !logging.SensitiveHeaders[strings.ToLower(name)] {
			value = strings.Join(headers[name], ",")
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return attrs
}
