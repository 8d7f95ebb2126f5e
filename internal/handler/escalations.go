package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/service"
)

// EscalationHandler hands customer queries over to human agents
type EscalationHandler struct {
	escalator *service.Escalator
}

func NewEscalationHandler(escalator *service.Escalator) *EscalationHandler {
	return &EscalationHandler{escalator: escalator}
}

// Create handles POST /api/v1/escalations
func (h *EscalationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EscalationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	esc, err := h.escalator.Escalate(r.Context(), req.Query, req.PolicyNumber)
	if errors.Is(err, service.ErrEmptyQuery) {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("escalation failed")
		models.WriteError(w, http.StatusInternalServerError, "escalation failed")
		return
	}
	models.WriteJSON(w, http.StatusCreated, esc)
}
