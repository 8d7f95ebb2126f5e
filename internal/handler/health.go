package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/agentic-insurtech/insurtech/internal/models"
)

const version = "1.0.0"

// HealthChecker is implemented by services that can report connectivity
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

type namedChecker struct {
	name    string
	checker HealthChecker
}

// HealthHandler handles GET /health with optional dependency checks
type HealthHandler struct {
	checks []namedChecker
}

// NewHealthHandler checks every dependency in deps. A nil checker is
// reported as disabled.
func NewHealthHandler(deps map[string]HealthChecker) *HealthHandler {
	h := &HealthHandler{}
	for name, c := range deps {
		h.checks = append(h.checks, namedChecker{name: name, checker: c})
	}
	sort.Slice(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })
	return h
}

// Health handles GET /health. Any failing dependency degrades the service
// and returns 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Use a short timeout for health checks so they don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, c := range h.checks {
		if c.checker == nil {
			checks[c.name] = "disabled"
			continue
		}
		if err := c.checker.TestConnection(ctx); err != nil {
			checks[c.name] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks[c.name] = "ok"
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
