package httpclient

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// headerIfMatch marks a conditional write. The table store applies it at most
// once: a replay after a lost response fails with 404 or 412 even though the
// first attempt succeeded.
const headerIfMatch = "If-Match"

// errRetriesExhausted marks a retryable status that persisted through every
// attempt. The final response is kept for the caller.
var errRetriesExhausted = errors.New("retries exhausted")

// doWithRetry sends req until the store answers with a final status, the
// attempts run out, or a transport error hits a request that is not safe to
// replay. Request bodies are buffered so they can be resent. The result is
// written to resp rather than returned to avoid false positives from the
// bodyclose linter; the caller closes the response body.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	bodyBytes, err := bufferRequestBody(req)
	if err != nil {
		return err
	}

	replayable := replaySafe(req)

	var (
		lastErr error
		hint    time.Duration
	)
	for attempt := range c.retryCfg.maxAttempts {
		if attempt > 0 {
			if err := c.waitForRetry(ctx, req, attempt, hint, lastErr); err != nil {
				return err
			}
		}

		resetRequestBody(req, bodyBytes)

		r, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			hint = 0
			if !isRetryable(err) || !replayable {
				return err
			}
			continue
		}

		if !isRetryableStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("%w: HTTP %d from %s", errRetriesExhausted, r.StatusCode, c.serviceName)

		if attempt == c.retryCfg.maxAttempts-1 {
			*resp = r
			return lastErr
		}

		hint = retryAfter(r, time.Now())
		drainResponseBody(r)
	}

	return lastErr
}

// replaySafe reports whether req may be resent after a transport error, when
// it is unknown whether the store applied it. Reads qualify, as do
// unconditional PUT and DELETE. Inserts (POST), merges (PATCH, MERGE) and any
// write carrying If-Match do not: a replay of an applied write reports a
// conflict or a missing todo for an operation that actually succeeded.
func replaySafe(req *http.Request) bool {
	if req.Header.Get(headerIfMatch) != "" {
		return false
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// retryAfter returns the delay requested by a throttled or unavailable store
// through the Retry-After header, in either delta-seconds or HTTP-date form.
// Zero means no usable hint.
func retryAfter(resp *http.Response, now time.Time) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func bufferRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	_ = req.Body.Close()

	return bodyBytes, nil
}

func resetRequestBody(req *http.Request, bodyBytes []byte) {
	if bodyBytes == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	req.ContentLength = int64(len(bodyBytes))
}

// drainResponseBody discards the body so the connection can be reused.
func drainResponseBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// waitForRetry sleeps before the next attempt. The delay is the jittered
// backoff, raised to the store's Retry-After hint when that is longer, and
// never above the configured max interval.
func (c *Client) waitForRetry(ctx context.Context, req *http.Request, attempt int, hint time.Duration, lastErr error) error {
	delay := backoff(attempt, c.retryCfg)
	if hint > delay {
		delay = min(hint, c.retryCfg.maxInterval)
	}

	logging.FromContext(ctx).WarnContext(ctx, "retrying table store request",
		slog.String("operation", "httpclient.Do"),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("peer_service", c.serviceName),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Duration("retry_after", hint),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns the exponential delay for a 1-indexed retry attempt, capped
// at the max interval and then jittered by ±25%.
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(cfg.maxInterval))

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	return time.Duration(math.Max(delay, 0))
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable reports whether a transport error may clear on its own.
// Cancellation and deadlines are final. Anything else, network errors
// included, is worth another attempt when the request is replay-safe.
func isRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	return true
}

// isRetryableStatus reports whether the store answered with a status that
// signals a transient condition: throttling (429) or a server error (5xx).
// The store reported the failure itself, so any method may be resent.
func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}
