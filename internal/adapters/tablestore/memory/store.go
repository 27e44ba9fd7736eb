// Package memory provides an in-process table store backend. It keeps every
// entity in a map guarded by a mutex and maintains ETags itself, so it
// behaves like the external stores for conditional writes.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoStore     = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// DefaultPageSize mirrors the Azure Tables page limit.
const DefaultPageSize = 1000

type key struct {
	partitionKey string
	rowKey       string
}

// Store is an in-memory implementation of ports.TodoStore.
type Store struct {
	mu       sync.RWMutex
	entities map[key]todo.Entity
	pageSize int
	now      func() time.Time
}

// NewStore returns an empty Store. A non-positive pageSize falls back to
// DefaultPageSize.
func NewStore(pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		entities: make(map[key]todo.Entity),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Insert adds entity with a fresh ETag. Fails with domain.ErrConflict when
// the key is taken.
func (s *Store) Insert(ctx context.Context, entity todo.Entity) (*todo.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{entity.PartitionKey, entity.RowKey}
	if _, ok := s.entities[k]; ok {
		return nil, fmt.Errorf("inserting entity %s/%s: %w", k.partitionKey, k.rowKey, domain.ErrConflict)
	}

	stored := s.stamp(entity)
	s.entities[k] = stored
	return &stored, nil
}

// Get returns a copy of the entity at (partitionKey, rowKey).
func (s *Store) Get(ctx context.Context, partitionKey, rowKey string) (*todo.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[key{partitionKey, rowKey}]
	if !ok {
		return nil, fmt.Errorf("getting entity %s/%s: %w", partitionKey, rowKey, domain.ErrNotFound)
	}
	return &e, nil
}

// Replace overwrites the entity if its current ETag matches etag.
func (s *Store) Replace(ctx context.Context, entity todo.Entity, etag todo.ETag) (*todo.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{entity.PartitionKey, entity.RowKey}
	current, ok := s.entities[k]
	if !ok {
		return nil, fmt.Errorf("replacing entity %s/%s: %w", k.partitionKey, k.rowKey, domain.ErrNotFound)
	}
	if etag != todo.ETagAny && etag != current.ETag {
		return nil, fmt.Errorf("replacing entity %s/%s: etag %s does not match: %w",
			k.partitionKey, k.rowKey, etag, domain.ErrConflict)
	}

	stored := s.stamp(entity)
	s.entities[k] = stored
	return &stored, nil
}

// Delete removes the entity if its current ETag matches etag.
func (s *Store) Delete(ctx context.Context, partitionKey, rowKey string, etag todo.ETag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{partitionKey, rowKey}
	current, ok := s.entities[k]
	if !ok {
		return fmt.Errorf("deleting entity %s/%s: %w", partitionKey, rowKey, domain.ErrNotFound)
	}
	if etag != todo.ETagAny && etag != current.ETag {
		return fmt.Errorf("deleting entity %s/%s: etag %s does not match: %w",
			partitionKey, rowKey, etag, domain.ErrConflict)
	}

	delete(s.entities, k)
	return nil
}

// QueryPartition returns up to one page of the partition's entities ordered
// by row key, the order Azure Tables uses.
func (s *Store) QueryPartition(ctx context.Context, partitionKey string) ([]todo.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]todo.Entity, 0, len(s.entities))
	for k, e := range s.entities {
		if k.partitionKey == partitionKey {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b todo.Entity) int {
		return strings.Compare(a.RowKey, b.RowKey)
	})
	if len(out) > s.pageSize {
		out = out[:s.pageSize]
	}
	return out, nil
}

// EnsureTable is a no-op; the map exists from construction.
func (s *Store) EnsureTable(context.Context) error {
	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "tablestore.memory"
}

// HealthCheck always succeeds.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

func (s *Store) stamp(e todo.Entity) todo.Entity {
	e.ETag = todo.NewETag()
	e.Timestamp = s.now().UTC()
	return e
}
