// Package app provides application services that carry out use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService on top of the TodoStore port. Each
// operation is a single straight-line pass: build or look up the entity,
// make one store call (two for UpdateTodo), map the result back to a Todo.
// It holds no mutable state; all shared state lives in the store.
type TodoService struct {
	store  ports.TodoStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a TodoService.
type Option func(*TodoService)

// WithClock overrides the clock used to stamp CreatedTime on new todos.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		s.now = now
	}
}

// NewTodoService creates a TodoService backed by the given store port. A nil
// logger is replaced with one that discards output.
func NewTodoService(store ports.TodoStore, logger *slog.Logger, opts ...Option) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &TodoService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTodo inserts a new active todo. The ID is generated here, so no
// duplicate detection is attempted.
func (s *TodoService) CreateTodo(ctx context.Context, taskDescription string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "creating todo")

	t := todo.New(taskDescription, s.now())

	if _, err := s.store.Insert(ctx, todo.ToEntity(t)); err != nil {
		s.logFailure(ctx, "failed to create todo", "CreateTodo", t.ID, err)
		return nil, err
	}

	return &t, nil
}

// ListTodos returns the todos on the first page of the shared partition.
func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	entities, err := s.store.QueryPartition(ctx, todo.PartitionKey)
	if err != nil {
		s.logFailure(ctx, "failed to list todos", "ListTodos", "", err)
		return nil, err
	}

	return todo.ToTodos(entities), nil
}

// GetTodo returns a single todo by ID using a point lookup.
func (s *TodoService) GetTodo(ctx context.Context, id string) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.String("todo_id", id))

	e, err := s.store.Get(ctx, todo.PartitionKey, id)
	if err != nil {
		s.logFailure(ctx, "failed to fetch todo", "GetTodo", id, err)
		return nil, err
	}

	t := todo.ToTodo(*e)
	return &t, nil
}

// UpdateTodo reads the current entity, sets its completion flag and writes it
// back in replace mode conditioned on the ETag that was read. A lost race
// surfaces as the store's conflict error and is not retried.
func (s *TodoService) UpdateTodo(ctx context.Context, id string, isCompleted bool) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "updating todo",
		slog.String("todo_id", id),
		slog.Bool("is_completed", isCompleted),
	)

	existing, err := s.store.Get(ctx, todo.PartitionKey, id)
	if err != nil {
		s.logFailure(ctx, "failed to fetch todo for update", "UpdateTodo", id, err)
		return nil, err
	}

	existing.IsCompleted = isCompleted

	updated, err := s.store.Replace(ctx, *existing, existing.ETag)
	if err != nil {
		s.logFailure(ctx, "failed to update todo", "UpdateTodo", id, err,
			slog.String("etag", string(existing.ETag)),
		)
		return nil, err
	}

	t := todo.ToTodo(*updated)
	return &t, nil
}

// DeleteTodo removes a todo with a wildcard ETag, so concurrent edits do not
// block the delete.
func (s *TodoService) DeleteTodo(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting todo", slog.String("todo_id", id))

	if err := s.store.Delete(ctx, todo.PartitionKey, id, todo.ETagAny); err != nil {
		s.logFailure(ctx, "failed to delete todo", "DeleteTodo", id, err)
		return err
	}

	return nil
}

// logFailure logs a failed store call with the operation name, the todo ID
// when known, and the full error chain. A missing todo is an expected outcome
// and is logged at info; everything else is logged at error.
func (s *TodoService) logFailure(ctx context.Context, msg, operation, id string, err error, extra ...slog.Attr) {
	level := slog.LevelError
	if errors.Is(err, domain.ErrNotFound) {
		level = slog.LevelInfo
	}

	attrs := make([]slog.Attr, 0, len(extra)+3)
	attrs = append(attrs, slog.String("operation", operation))
	if id != "" {
		attrs = append(attrs, slog.String("todo_id", id))
	}
	attrs = append(attrs, extra...)
	attrs = append(attrs, slog.Any("error", err))

	s.logger.LogAttrs(ctx, level, msg, attrs...)
}
