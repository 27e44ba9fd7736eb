// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/domain/todo"
)

// TodoResponse represents a single todo in HTTP responses.
type TodoResponse struct {
	ID              string `json:"id"`
	CreatedTime     string `json:"createdTime"`
	TaskDescription string `json:"taskDescription"`
	IsCompleted     bool   `json:"isCompleted"`
}

// ToTodoResponse converts a domain Todo to an HTTP response DTO. The creation
// time is rendered as an ISO-8601 UTC timestamp.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:              t.ID,
		CreatedTime:     t.CreatedTime.UTC().Format(time.RFC3339Nano),
		TaskDescription: t.TaskDescription,
		IsCompleted:     t.IsCompleted,
	}
}

// ToTodoListResponse converts a slice of domain Todos to the list response,
// a bare JSON array. An empty input yields an empty array, never null.
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}
