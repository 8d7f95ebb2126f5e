package handler

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-insurtech/insurtech/internal/agent"
	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/security"
)

// AssistantHandler handles POST /api/v1/assistant
type AssistantHandler struct {
	agent          *agent.AssistantHandler
	defaultTimeout int
}

// NewAssistantHandler creates the handler. agentHandler is nil when no
// Anthropic API key is configured.
func NewAssistantHandler(agentHandler *agent.AssistantHandler, defaultTimeout int) *AssistantHandler {
	return &AssistantHandler{agent: agentHandler, defaultTimeout: defaultTimeout}
}

// Ask runs the prompt through the routed agent's tool loop
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.agent == nil {
		models.WriteError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req models.AssistantRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults(h.defaultTimeout)

	if req.Prompt == "" {
		models.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	resp, err := h.agent.Handle(r.Context(), &req, security.APIKeyFromContext(r.Context()))
	if err != nil {
		if resp != nil {
			models.WriteJSON(w, http.StatusBadRequest, resp)
			return
		}
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, resp)
}
