// Package httpclient is the HTTP transport underneath the Azure Tables SDK
// client. Every call to the table store passes through, in order:
//
//	Circuit Breaker → Rate Limiter → Header Injection → OTEL Span → Retry → HTTP
//
// Client satisfies policy.Transporter, so it plugs into the SDK's pipeline
// in place of the default transport (the SDK's own retries are turned off):
//
//	transport := httpclient.New(&cfg.Client, "aztable", metrics, logger)
//	opts := azcore.ClientOptions{Transport: transport, Retry: policy.RetryOptions{MaxRetries: -1}}
//
// Inbound middleware stores the request and correlation IDs in the context;
// they are sent on every table store call the request makes:
//
//	ctx = httpclient.WithRequestID(ctx, "req-123")
//	ctx = httpclient.WithCorrelationID(ctx, "corr-456")
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
)

// headerClientRequestID is the Azure Storage header echoed into the
// service's analytics logs. Setting it to the inbound request ID lets a todo
// request be found on the storage side.
const headerClientRequestID = "x-ms-client-request-id"

type (
	requestIDKey     struct{}
	correlationIDKey struct{}
)

// WithRequestID stores the inbound request ID for outbound table store calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithCorrelationID stores the inbound correlation ID for outbound table
// store calls.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// retryConfig is config.RetryConfig copied into unexported fields.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Client sends table store requests with a circuit breaker, rate limiting,
// retries, ID propagation and tracing.
type Client struct {
	httpClient  *http.Client
	serviceName string
	breaker     *gobreaker.CircuitBreaker[struct{}]
	limiter     *rate.Limiter // nil when rate limiting is disabled
	retryCfg    retryConfig
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// New builds a Client from the client section of the config. serviceName
// names the store in spans, metrics, breaker logs and health output. A nil
// metrics skips metric recording.
func New(cfg *config.ClientConfig, serviceName string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		// A caller hanging up says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("table store circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		serviceName: serviceName,
		breaker:     cb,
		limiter:     limiter,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Do sends req through the breaker, limiter, span and retry loop.
//
// Whenever the store answered, resp is non-nil with an open body the caller
// must close and err is nil, even if a retryable status outlasted every
// attempt (that still counts as a breaker failure). Status handling is left
// to the SDK, which turns error statuses into *azcore.ResponseError. resp is
// nil when the breaker rejects the call or no response arrived.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()
	kind := classifyTableRequest(req)

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if err := c.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}

		c.injectHeaders(ctx, req)

		spanCtx, span := c.startSpan(ctx, req, kind)
		defer span.End()

		req = req.WithContext(spanCtx)

		retryErr := c.doWithRetry(spanCtx, req, &resp)
		c.finishSpan(span, resp, retryErr)

		return struct{}{}, retryErr
	})

	c.recordMetrics(ctx, req.Method, kind, start, resp, err)

	if resp != nil && errors.Is(err, errRetriesExhausted) {
		return resp, nil
	}
	return resp, err
}

// Name identifies the store in the readiness report.
func (c *Client) Name() string {
	return c.serviceName
}

// HealthCheck reports the table store's health from the breaker state alone,
// without a network call: closed is healthy, half-open is degraded, open is
// failing. It describes the store, not the service, which keeps serving
// (with 502s) while the store is down.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.serviceName)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.serviceName)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.serviceName, state)
	}
}

func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// injectHeaders copies the inbound IDs onto the store request. The request
// ID also replaces the SDK-generated x-ms-client-request-id.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
		req.Header.Set(headerClientRequestID, id)
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
}

func (c *Client) startSpan(ctx context.Context, req *http.Request, kind string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("httpclient")

	ctx, span := tracer.Start(ctx, c.serviceName+" "+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", redactedURL(req.URL)),
			attribute.String("peer.service", c.serviceName),
			telemetry.AttrTableRequest.String(kind),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

func (c *Client) finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics runs outside the breaker so rejected calls are counted too.
// A 404, 409 or 412 is an answer about a todo, not a store failure, and is
// labelled as such.
func (c *Client) recordMetrics(ctx context.Context, method, kind string, start time.Time, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(statusCode),
		telemetry.AttrPeerService.String(c.serviceName),
		telemetry.AttrTableRequest.String(kind),
		telemetry.AttrResult.String(clientResult(statusCode, err)),
	)

	c.metrics.TableRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.TableRequestTotal.Add(ctx, 1, attrs)
}

func clientResult(statusCode int, err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusConflict, statusCode == http.StatusPreconditionFailed:
		return "conflict"
	case statusCode != 0 && statusCode < http.StatusBadRequest:
		return "success"
	default:
		return "error"
	}
}

// classifyTableRequest names the Azure Tables operation req performs, from
// its method and path.
func classifyTableRequest(req *http.Request) string {
	path := strings.TrimPrefix(req.URL.Path, "/")
	isTables := path == "Tables" || strings.HasPrefix(path, "Tables(") || strings.HasPrefix(path, "Tables/")
	isEntity := strings.Contains(path, "PartitionKey=")

	switch {
	case isTables && req.Method == http.MethodPost:
		return "CreateTable"
	case isTables && req.Method == http.MethodDelete:
		return "DeleteTable"
	case isTables:
		return "QueryTables"
	case req.Method == http.MethodGet && isEntity:
		return "GetEntity"
	case req.Method == http.MethodGet:
		return "QueryEntities"
	case req.Method == http.MethodPost:
		return "InsertEntity"
	case req.Method == http.MethodPut:
		return "UpdateEntity"
	case req.Method == http.MethodPatch, req.Method == "MERGE":
		return "MergeEntity"
	case req.Method == http.MethodDelete:
		return "DeleteEntity"
	default:
		return "Other"
	}
}

// redactedURL drops the query string, which carries the SAS signature when
// the store is reached with a shared access signature.
func redactedURL(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.ForceQuery = false
	clean.User = nil
	return clean.String()
}

// toUint32 clamps v into the uint32 range.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
