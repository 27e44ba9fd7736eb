package ports

import (
	"context"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
)

// TodoStore defines the outbound port to the table store holding todo
// entities. Entities are addressed by (partitionKey, rowKey). Implemented by
// the tablestore adapters (memory, postgres, aztable); called by the
// application layer.
//
// Every method is a single atomic store call for one item, except
// QueryPartition which reads one page.
type TodoStore interface {
	// Insert adds a new entity and returns it with the store-assigned ETag
	// and Timestamp. Returns domain.ErrConflict if the key already exists.
	Insert(ctx context.Context, entity todo.Entity) (*todo.Entity, error)

	// Get returns the entity at (partitionKey, rowKey), including its ETag.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, partitionKey, rowKey string) (*todo.Entity, error)

	// Replace overwrites every property of an existing entity, provided its
	// current ETag still equals etag. Returns the entity with its new ETag.
	// Returns domain.ErrConflict when the ETag no longer matches and
	// domain.ErrNotFound when the entity has been removed.
	Replace(ctx context.Context, entity todo.Entity, etag todo.ETag) (*todo.Entity, error)

	// Delete removes the entity at (partitionKey, rowKey). Pass todo.ETagAny
	// to delete regardless of concurrent modifications. Returns
	// domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, partitionKey, rowKey string, etag todo.ETag) error

	// QueryPartition returns the first page of entities in the partition, in
	// the store's native order. Later pages are never fetched.
	QueryPartition(ctx context.Context, partitionKey string) ([]todo.Entity, error)

	// EnsureTable provisions the backing table if it does not exist yet.
	// Safe to call repeatedly.
	EnsureTable(ctx context.Context) error
}
