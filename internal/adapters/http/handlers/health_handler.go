package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jsamuelsen11/tabletodo-service/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// readiness is the body of GET /health/ready. Checks maps each checker name
// to "ok" or its error text.
type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	registry     ports.HealthRegistry
	checkTimeout time.Duration
}

// NewHealthHandler creates a HealthHandler over registry. A positive
// checkTimeout bounds each readiness check so a hung store cannot stall the
// endpoint; zero leaves the request context as is.
func NewHealthHandler(registry ports.HealthRegistry, checkTimeout time.Duration) *HealthHandler {
	return &HealthHandler{registry: registry, checkTimeout: checkTimeout}
}

// Liveness handles GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready: 200 when the table store and its
// transport report healthy, 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.checkTimeout)
		defer cancel()
	}

	body := summarize(h.registry.CheckAll(ctx))
	code := http.StatusOK
	if body.Status != statusReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, body)
}

func summarize(results map[string]error) readiness {
	body := readiness{Status: statusReady, Checks: make(map[string]string, len(results))}
	for name, err := range results {
		if err == nil {
			body.Checks[name] = statusOK
			continue
		}
		body.Checks[name] = err.Error()
		body.Status = statusNotReady
	}
	return body
}
