package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/tablestore/memory"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
)

func newEntity(rowKey string) todo.Entity {
	return todo.Entity{
		PartitionKey:    todo.PartitionKey,
		RowKey:          rowKey,
		CreatedTime:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		TaskDescription: "task " + rowKey,
	}
}

func TestStore_InsertAssignsETagAndTimestamp(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	got, err := s.Insert(context.Background(), newEntity("a"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if got.ETag == "" {
		t.Error("ETag is empty, want store-assigned value")
	}
	if got.Timestamp.IsZero() {
		t.Error("Timestamp is zero, want store-assigned value")
	}
}

func TestStore_InsertDuplicateConflicts(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	if _, err := s.Insert(ctx, newEntity("a")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	_, err := s.Insert(ctx, newEntity("a"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestStore_GetRoundTrip(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	inserted, err := s.Insert(ctx, newEntity("a"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := s.Get(ctx, todo.PartitionKey, "a")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if *got != *inserted {
		t.Errorf("Get() = %+v, want %+v", *got, *inserted)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	_, err := s.Get(context.Background(), todo.PartitionKey, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	if _, err := s.Insert(ctx, newEntity("a")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, _ := s.Get(ctx, todo.PartitionKey, "a")
	got.IsCompleted = true

	again, _ := s.Get(ctx, todo.PartitionKey, "a")
	if again.IsCompleted {
		t.Error("mutating a returned entity changed the stored one")
	}
}

func TestStore_Replace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		etag    func(stored *todo.Entity) todo.ETag
		rowKey  string
		wantErr error
	}{
		{
			name:   "matching etag",
			etag:   func(stored *todo.Entity) todo.ETag { return stored.ETag },
			rowKey: "a",
		},
		{
			name:   "wildcard etag",
			etag:   func(*todo.Entity) todo.ETag { return todo.ETagAny },
			rowKey: "a",
		},
		{
			name:    "stale etag",
			etag:    func(*todo.Entity) todo.ETag { return `W/"stale"` },
			rowKey:  "a",
			wantErr: domain.ErrConflict,
		},
		{
			name:    "missing entity",
			etag:    func(*todo.Entity) todo.ETag { return todo.ETagAny },
			rowKey:  "missing",
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := memory.NewStore(0)
			ctx := context.Background()
			stored, err := s.Insert(ctx, newEntity("a"))
			if err != nil {
				t.Fatalf("Insert() error: %v", err)
			}

			update := newEntity(tt.rowKey)
			update.IsCompleted = true

			got, err := s.Replace(ctx, update, tt.etag(stored))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Replace() error: %v", err)
			}
			if !got.IsCompleted {
				t.Error("IsCompleted = false, want true")
			}
			if got.ETag == stored.ETag {
				t.Error("ETag unchanged after replace, want a new version")
			}
		})
	}
}

func TestStore_ReplaceWithOldETagAfterUpdateConflicts(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	first, err := s.Insert(ctx, newEntity("a"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if _, err := s.Replace(ctx, *first, first.ETag); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	_, err = s.Replace(ctx, *first, first.ETag)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	if _, err := s.Insert(ctx, newEntity("a")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if err := s.Delete(ctx, todo.PartitionKey, "a", todo.ETagAny); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	_, err := s.Get(ctx, todo.PartitionKey, "a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}

	err = s.Delete(ctx, todo.PartitionKey, "a", todo.ETagAny)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteStaleETagConflicts(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	if _, err := s.Insert(ctx, newEntity("a")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	err := s.Delete(ctx, todo.PartitionKey, "a", `W/"stale"`)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestStore_QueryPartitionOrderAndScope(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	for _, rk := range []string{"c", "a", "b"} {
		if _, err := s.Insert(ctx, newEntity(rk)); err != nil {
			t.Fatalf("Insert(%s) error: %v", rk, err)
		}
	}
	other := newEntity("z")
	other.PartitionKey = "OTHER"
	if _, err := s.Insert(ctx, other); err != nil {
		t.Fatalf("Insert(other) error: %v", err)
	}

	got, err := s.QueryPartition(ctx, todo.PartitionKey)
	if err != nil {
		t.Fatalf("QueryPartition() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].RowKey != want {
			t.Errorf("got[%d].RowKey = %q, want %q", i, got[i].RowKey, want)
		}
	}
}

func TestStore_QueryPartitionEmptyIsNonNil(t *testing.T) {
	t.Parallel()

	got, err := memory.NewStore(0).QueryPartition(context.Background(), todo.PartitionKey)
	if err != nil {
		t.Fatalf("QueryPartition() error: %v", err)
	}
	if got == nil {
		t.Error("QueryPartition() = nil, want empty slice")
	}
}

func TestStore_QueryPartitionStopsAtPageSize(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(2)
	ctx := context.Background()
	for i := range 5 {
		if _, err := s.Insert(ctx, newEntity(fmt.Sprintf("row-%d", i))); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	got, err := s.QueryPartition(ctx, todo.PartitionKey)
	if err != nil {
		t.Fatalf("QueryPartition() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 (first page only)", len(got))
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := memory.NewStore(0).Get(ctx, todo.PartitionKey, "a")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestStore_ConcurrentReplaceOneWinner(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	ctx := context.Background()
	stored, err := s.Insert(ctx, newEntity("a"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for range writers {
		wg.Go(func() {
			_, err := s.Replace(ctx, *stored, stored.ETag)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		})
	}
	wg.Wait()

	if successes != 1 || conflicts != writers-1 {
		t.Errorf("successes = %d, conflicts = %d, want 1 and %d", successes, conflicts, writers-1)
	}
}

func TestStore_HealthCheck(t *testing.T) {
	t.Parallel()

	s := memory.NewStore(0)
	if s.Name() != "tablestore.memory" {
		t.Errorf("Name() = %q, want %q", s.Name(), "tablestore.memory")
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
}
