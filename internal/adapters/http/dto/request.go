package dto

// CreateTodoRequest represents the JSON body for creating a new todo.
// An absent or empty description is accepted and stored as given.
type CreateTodoRequest struct {
	TaskDescription string `json:"taskDescription"`
}

// UpdateTodoRequest represents the JSON body for updating a todo. Only the
// completion flag can change; an absent field reads as false.
type UpdateTodoRequest struct {
	IsCompleted bool `json:"isCompleted"`
}
