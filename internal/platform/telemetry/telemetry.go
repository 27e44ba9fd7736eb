// Package telemetry sets up the OpenTelemetry tracer and meter providers and
// registers the instruments the service records: inbound todo requests,
// table store operations, and the Azure Tables calls underneath them.
//
//	providers, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer providers.Shutdown(ctx)
//	providers.Metrics.StoreOperationTotal.Add(ctx, 1, ...)
//
// Exporters are "stdout" for development or "otlp" (OTLP/HTTP) for
// collectors.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/jsamuelsen11/tabletodo-service/internal/platform/config"
)

// Exporter names accepted in the telemetry config.
const (
	ExporterStdout = config.ExporterStdout
	ExporterOTLP   = config.ExporterOTLP
)

// Attribute keys for span attributes and metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPURL     = attribute.Key("http.url")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")

	// AttrTodoID is the row key of the todo a request addresses. It is a
	// span attribute only; metric labels stay bounded.
	AttrTodoID = attribute.Key("todo.id")

	// AttrStoreOperation names the table store call (insert, get, replace,
	// delete, query_partition, ensure_table).
	AttrStoreOperation = attribute.Key("tablestore.operation")

	// AttrStoreDriver names the store backend (memory, postgres, aztable).
	AttrStoreDriver = attribute.Key("tablestore.driver")

	// AttrTableRequest classifies an outbound Azure Tables call (GetEntity,
	// QueryEntities, InsertEntity, UpdateEntity, DeleteEntity, CreateTable).
	AttrTableRequest = attribute.Key("aztable.request")
)

var errEmptyEndpoint = errors.New("otlp exporter requires an endpoint")

// Metrics holds the registered instruments.
type Metrics struct {
	ServerRequestDuration  metric.Float64Histogram
	ServerRequestTotal     metric.Int64Counter
	StoreOperationDuration metric.Float64Histogram
	StoreOperationTotal    metric.Int64Counter
	TableRequestDuration   metric.Float64Histogram
	TableRequestTotal      metric.Int64Counter
}

// Providers owns the SDK providers installed by Setup. Every field is nil
// when telemetry is disabled, and instrumented code skips recording then.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup installs global tracer and meter providers exporting to
// cfg.Exporter and registers the service's instruments. A disabled config
// returns empty Providers.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	if !cfg.Enabled {
		return &Providers{}, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spans, err := newSpanExporter(ctx, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	readings, err := newMetricExporter(ctx, cfg.Exporter, cfg.Endpoint)
	if err != nil {
		_ = spans.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res)),
		Meter: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(readings)),
			sdkmetric.WithResource(res),
		),
	}

	p.Metrics, err = NewMetrics(p.Meter, cfg.ServiceName)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// Shutdown flushes and stops both providers. Safe on empty Providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		if err := p.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.Meter != nil {
		if err := p.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// instrument describes one duration histogram and request counter pair.
type instrument struct {
	prefix   string
	subject  string
	unit     string
	duration *metric.Float64Histogram
	total    *metric.Int64Counter
}

// NewMetrics registers every instrument on mp under the scope name.
func NewMetrics(mp metric.MeterProvider, scope string) (*Metrics, error) {
	meter := mp.Meter(scope)
	m := &Metrics{}

	for _, in := range []instrument{
		{"http.server.request", "incoming todo API requests", "{request}", &m.ServerRequestDuration, &m.ServerRequestTotal},
		{"tablestore.operation", "table store operations", "{operation}", &m.StoreOperationDuration, &m.StoreOperationTotal},
		{"aztable.request", "Azure Tables REST calls", "{request}", &m.TableRequestDuration, &m.TableRequestTotal},
	} {
		var err error
		*in.duration, err = meter.Float64Histogram(in.prefix+".duration",
			metric.WithDescription("Duration of "+in.subject),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil, fmt.Errorf("creating %s.duration: %w", in.prefix, err)
		}
		*in.total, err = meter.Int64Counter(in.prefix+".total",
			metric.WithDescription("Total number of "+in.subject),
			metric.WithUnit(in.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("creating %s.total: %w", in.prefix, err)
		}
	}

	return m, nil
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := collectorAddr(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := collectorAddr(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

// collectorAddr splits a collector URL such as "http://otel-collector:4318"
// into the host:port the OTLP exporters want and whether to skip TLS. A bare
// host:port is used as given, without TLS.
func collectorAddr(endpoint string) (host string, insecure bool, err error) {
	if endpoint == "" {
		return "", false, errEmptyEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, true, nil
	}
	return u.Host, u.Scheme != "https", nil
}
