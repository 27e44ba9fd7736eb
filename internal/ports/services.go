package ports

import (
	"context"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
)

// TodoService defines the service port for the todo CRUD operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// Each operation translates into one store call, two for UpdateTodo.
type TodoService interface {
	// CreateTodo creates an active todo with a server-generated ID and
	// creation time. The description is stored as given, even when empty.
	CreateTodo(ctx context.Context, taskDescription string) (*todo.Todo, error)

	// ListTodos returns the todos on the store's first page, in store order.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id string) (*todo.Todo, error)

	// UpdateTodo sets the completion flag of an existing todo, leaving every
	// other field untouched. The write is conditioned on the version read.
	// Returns domain.ErrNotFound if the todo does not exist and
	// domain.ErrConflict if it changed between the read and the write.
	UpdateTodo(ctx context.Context, id string, isCompleted bool) (*todo.Todo, error)

	// DeleteTodo removes a todo regardless of concurrent modifications.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id string) error
}
