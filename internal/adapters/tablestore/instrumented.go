// Package tablestore wires the table store backends. Open selects a backend
// from configuration and wraps it in an instrumented decorator that emits a
// span and metrics for every store call.
package tablestore

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
	"github.com/jsamuelsen11/tabletodo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Compile-time interface check.
var _ ports.TodoStore = (*Instrumented)(nil)

// Store operation names used for span names and metric labels.
const (
	opInsert         = "insert"
	opGet            = "get"
	opReplace        = "replace"
	opDelete         = "delete"
	opQueryPartition = "query_partition"
	opEnsureTable    = "ensure_table"
)

// Instrumented decorates a ports.TodoStore with a client span and duration
// and count metrics per call. Errors pass through unchanged.
type Instrumented struct {
	next    ports.TodoStore
	driver  string
	metrics *telemetry.Metrics
}

// Instrument wraps next. If metrics is nil, only spans are recorded.
func Instrument(next ports.TodoStore, driver string, metrics *telemetry.Metrics) *Instrumented {
	return &Instrumented{next: next, driver: driver, metrics: metrics}
}

// Insert implements ports.TodoStore.
func (s *Instrumented) Insert(ctx context.Context, entity todo.Entity) (*todo.Entity, error) {
	ctx, done := s.start(ctx, opInsert, entity.RowKey)
	e, err := s.next.Insert(ctx, entity)
	done(err)
	return e, err
}

// Get implements ports.TodoStore.
func (s *Instrumented) Get(ctx context.Context, partitionKey, rowKey string) (*todo.Entity, error) {
	ctx, done := s.start(ctx, opGet, rowKey)
	e, err := s.next.Get(ctx, partitionKey, rowKey)
	done(err)
	return e, err
}

// Replace implements ports.TodoStore.
func (s *Instrumented) Replace(ctx context.Context, entity todo.Entity, etag todo.ETag) (*todo.Entity, error) {
	ctx, done := s.start(ctx, opReplace, entity.RowKey)
	e, err := s.next.Replace(ctx, entity, etag)
	done(err)
	return e, err
}

// Delete implements ports.TodoStore.
func (s *Instrumented) Delete(ctx context.Context, partitionKey, rowKey string, etag todo.ETag) error {
	ctx, done := s.start(ctx, opDelete, rowKey)
	err := s.next.Delete(ctx, partitionKey, rowKey, etag)
	done(err)
	return err
}

// QueryPartition implements ports.TodoStore.
func (s *Instrumented) QueryPartition(ctx context.Context, partitionKey string) ([]todo.Entity, error) {
	ctx, done := s.start(ctx, opQueryPartition, "")
	entities, err := s.next.QueryPartition(ctx, partitionKey)
	done(err)
	return entities, err
}

// EnsureTable implements ports.TodoStore.
func (s *Instrumented) EnsureTable(ctx context.Context) error {
	ctx, done := s.start(ctx, opEnsureTable, "")
	err := s.next.EnsureTable(ctx)
	done(err)
	return err
}

// start opens the span for op and returns a function that ends it and
// records metrics for the outcome.
func (s *Instrumented) start(ctx context.Context, op, rowKey string) (context.Context, func(error)) {
	begin := time.Now()

	attrs := []attribute.KeyValue{
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrStoreDriver.String(s.driver),
	}
	if rowKey != "" {
		attrs = append(attrs, attribute.String("tablestore.row_key", rowKey))
	}

	tracer := otel.GetTracerProvider().Tracer("tablestore")
	ctx, span := tracer.Start(ctx, "tablestore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(err error) {
		res := result(err)
		span.SetAttributes(telemetry.AttrResult.String(res))
		// A missing entity is an answer, not a failure.
		if err != nil && res != resultNotFound {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		s.recordMetrics(ctx, op, begin, res)
	}
}

func (s *Instrumented) recordMetrics(ctx context.Context, op string, begin time.Time, res string) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrStoreDriver.String(s.driver),
		telemetry.AttrResult.String(res),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(begin).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

const (
	resultSuccess     = "success"
	resultNotFound    = "not_found"
	resultConflict    = "conflict"
	resultUnavailable = "unavailable"
	resultError       = "error"
)

func result(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return resultNotFound
	case errors.Is(err, domain.ErrConflict):
		return resultConflict
	case errors.Is(err, domain.ErrUnavailable):
		return resultUnavailable
	default:
		return resultError
	}
}
