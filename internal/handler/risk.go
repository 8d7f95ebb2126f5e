package handler

import (
	"encoding/json"
	"net/http"

	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/risk"
)

// RiskHandler serves typed risk assessments
type RiskHandler struct {
	model *risk.Model
}

func NewRiskHandler(model *risk.Model) *RiskHandler {
	return &RiskHandler{model: model}
}

// Assess handles POST /api/v1/risk/assess
func (h *RiskHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req models.RiskAssessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Items == nil {
		models.WriteError(w, http.StatusBadRequest, "items is required")
		return
	}

	a, err := h.model.Assess(req.Items, risk.MergeLocation(req.LocationFactors, req.Location))
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}
