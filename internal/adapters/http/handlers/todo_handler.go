package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

// TodoHandler handles HTTP requests for the todo CRUD operations. Each method
// makes exactly one service call and maps its result to a response.
type TodoHandler struct {
	svc ports.TodoService
}

// NewTodoHandler creates a new TodoHandler with the given service port.
func NewTodoHandler(svc ports.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// CreateTodo handles POST /tabletodo.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	created, err := h.svc.CreateTodo(r.Context(), req.TaskDescription)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(created))
}

// ListTodos handles GET /tabletodo.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// GetTodo handles GET /tabletodo/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTodo(r.Context(), todoID(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(t))
}

// UpdateTodo handles PUT /tabletodo/{id}. The body is decoded before the
// store is touched, so a malformed body never reaches the lookup.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTodoRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	updated, err := h.svc.UpdateTodo(r.Context(), todoID(r), req.IsCompleted)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(updated))
}

// DeleteTodo handles DELETE /tabletodo/{id}. Success is a 200 with an empty body.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTodo(r.Context(), todoID(r)); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
