// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints.
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Todo CRUD.
	r.Get("/tabletodo", todoHandler.ListTodos)
	r.Post("/tabletodo", todoHandler.CreateTodo)
	r.Get("/tabletodo/{id}", todoHandler.GetTodo)
	r.Put("/tabletodo/{id}", todoHandler.UpdateTodo)
	r.Delete("/tabletodo/{id}", todoHandler.DeleteTodo)

	return r
}
