package handler

import (
	"net/http"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/config"
	"github.com/agentic-insurtech/insurtech/internal/models"
)

// PerformanceHandler reports agent metrics from the in-memory activity log
type PerformanceHandler struct {
	log     *activity.MemoryLog
	targets map[string]config.Target
}

func NewPerformanceHandler(log *activity.MemoryLog, targets map[string]config.Target) *PerformanceHandler {
	return &PerformanceHandler{log: log, targets: targets}
}

// Performance handles GET /api/v1/agents/performance
func (h *PerformanceHandler) Performance(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, activity.Performance(h.log.Entries(), h.targets))
}
