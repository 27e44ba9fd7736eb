// Package aztable provides the Azure Table Storage backend. It drives the
// aztables SDK client over the instrumented httpclient transport, so every
// store call passes through the circuit breaker, rate limiter, retry loop,
// and client tracing.
package aztable

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Compile-time interface check.
var _ ports.TodoStore = (*Store)(nil)

const defaultPageSize = 1000

// tableAPI is the subset of *aztables.Client the store uses.
type tableAPI interface {
	CreateTable(ctx context.Context, options *aztables.CreateTableOptions) (aztables.CreateTableResponse, error)
	AddEntity(ctx context.Context, entity []byte, options *aztables.AddEntityOptions) (aztables.AddEntityResponse, error)
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpdateEntity(ctx context.Context, entity []byte, options *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
	NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
}

// Store implements ports.TodoStore on one Azure table.
type Store struct {
	api      tableAPI
	table    string
	pageSize int32
	logger   *slog.Logger
}

// Open builds a Store for table from a storage connection string. The
// transport carries every request; SDK retries are disabled because the
// transport already retries.
func Open(connectionString, table string, pageSize int, transport policy.Transporter, logger *slog.Logger) (*Store, error) {
	opts := &aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: transport,
			Retry:     policy.RetryOptions{MaxRetries: -1},
		},
	}

	svc, err := aztables.NewServiceClientFromConnectionString(connectionString, opts)
	if err != nil {
		return nil, fmt.Errorf("creating table service client: %w", err)
	}

	return newStore(svc.NewClient(table), table, pageSize, logger), nil
}

func newStore(api tableAPI, table string, pageSize int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	return &Store{
		api:      api,
		table:    table,
		pageSize: int32(pageSize),
		logger:   logger,
	}
}

// EnsureTable creates the table, treating an existing table as success.
func (s *Store) EnsureTable(ctx context.Context) error {
	_, err := s.api.CreateTable(ctx, nil)
	if err == nil {
		s.logger.InfoContext(ctx, "created table", slog.String("table", s.table))
		return nil
	}
	if isErrorCode(err, aztables.TableAlreadyExists) {
		return nil
	}
	return translateError("creating table "+s.table, err)
}

// Insert adds entity. An existing key maps to domain.ErrConflict.
func (s *Store) Insert(ctx context.Context, entity todo.Entity) (*todo.Entity, error) {
	body, err := marshalEntity(entity)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.AddEntity(ctx, body, nil)
	if err != nil {
		return nil, translateError(fmt.Sprintf("inserting entity %s/%s", entity.PartitionKey, entity.RowKey), err)
	}

	entity.ETag = todo.ETag(resp.ETag)
	if len(resp.Value) > 0 {
		if stored, err := unmarshalEntity(resp.Value); err == nil {
			entity.Timestamp = stored.Timestamp
		}
	}
	return &entity, nil
}

// Get performs a point read of (partitionKey, rowKey).
func (s *Store) Get(ctx context.Context, partitionKey, rowKey string) (*todo.Entity, error) {
	resp, err := s.api.GetEntity(ctx, partitionKey, rowKey, nil)
	if err != nil {
		return nil, translateError(fmt.Sprintf("getting entity %s/%s", partitionKey, rowKey), err)
	}

	e, err := unmarshalEntity(resp.Value)
	if err != nil {
		return nil, err
	}
	if resp.ETag != "" {
		e.ETag = todo.ETag(resp.ETag)
	}
	return &e, nil
}

// Replace writes entity in replace mode conditioned on etag.
func (s *Store) Replace(ctx context.Context, entity todo.Entity, etag todo.ETag) (*todo.Entity, error) {
	body, err := marshalEntity(entity)
	if err != nil {
		return nil, err
	}

	ifMatch := azcore.ETag(etag)
	resp, err := s.api.UpdateEntity(ctx, body, &aztables.UpdateEntityOptions{
		IfMatch:    &ifMatch,
		UpdateMode: aztables.UpdateModeReplace,
	})
	if err != nil {
		return nil, translateError(fmt.Sprintf("replacing entity %s/%s", entity.PartitionKey, entity.RowKey), err)
	}

	entity.ETag = todo.ETag(resp.ETag)
	return &entity, nil
}

// Delete removes the entity conditioned on etag.
func (s *Store) Delete(ctx context.Context, partitionKey, rowKey string, etag todo.ETag) error {
	ifMatch := azcore.ETag(etag)
	_, err := s.api.DeleteEntity(ctx, partitionKey, rowKey, &aztables.DeleteEntityOptions{IfMatch: &ifMatch})
	if err != nil {
		return translateError(fmt.Sprintf("deleting entity %s/%s", partitionKey, rowKey), err)
	}
	return nil
}

// QueryPartition fetches a single page filtered on the partition key. Any
// continuation token in the response is ignored.
func (s *Store) QueryPartition(ctx context.Context, partitionKey string) ([]todo.Entity, error) {
	filter := partitionFilter(partitionKey)
	top := s.pageSize
	pager := s.api.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Top:    &top,
	})

	out := make([]todo.Entity, 0)
	if !pager.More() {
		return out, nil
	}

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, translateError("querying partition "+partitionKey, err)
	}

	for _, raw := range page.Entities {
		e, err := unmarshalEntity(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if page.NextPartitionKey != nil || page.NextRowKey != nil {
		s.logger.DebugContext(ctx, "partition has more entities than one page",
			slog.String("partition_key", partitionKey),
			slog.Int("page_size", len(out)),
		)
	}
	return out, nil
}

// partitionFilter builds an OData filter, doubling single quotes.
func partitionFilter(partitionKey string) string {
	return fmt.Sprintf("PartitionKey eq '%s'", strings.ReplaceAll(partitionKey, "'", "''"))
}
