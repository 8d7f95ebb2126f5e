package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/policy"
	"github.com/agentic-insurtech/insurtech/internal/security"
)

// PolicyHandler serves policy lookups and coverage summaries
type PolicyHandler struct {
	svc    *policy.Service
	masker *security.DataMasker
}

// NewPolicyHandler creates the handler. masker may be nil to return
// policyholder details unmasked.
func NewPolicyHandler(svc *policy.Service, masker *security.DataMasker) *PolicyHandler {
	return &PolicyHandler{svc: svc, masker: masker}
}

// Get handles GET /api/v1/policies/{policy_number}
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Lookup(r.Context(), policy.Query{PolicyNumber: chi.URLParam(r, "policy_number")})
	if err != nil {
		log.Error().Err(err).Msg("policy lookup failed")
		models.WriteError(w, http.StatusInternalServerError, "policy lookup failed")
		return
	}
	if !res.Found || res.Policy == nil {
		models.WriteError(w, http.StatusNotFound, "Policy not found")
		return
	}
	p := h.masker.MaskPolicy(*res.Policy)
	res.Policy = &p
	models.WriteJSON(w, http.StatusOK, res)
}

// Search handles GET /api/v1/policies?name=&email=
func (h *PolicyHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := policy.Query{
		PolicyholderName:  r.URL.Query().Get("name"),
		PolicyholderEmail: r.URL.Query().Get("email"),
	}
	if q.PolicyholderName == "" && q.PolicyholderEmail == "" {
		models.WriteError(w, http.StatusBadRequest, "name or email is required")
		return
	}

	res, err := h.svc.Lookup(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("policy search failed")
		models.WriteError(w, http.StatusInternalServerError, "policy search failed")
		return
	}
	res.Policies = h.masker.MaskPolicies(res.Policies)
	if !res.Found {
		models.WriteJSON(w, http.StatusNotFound, res)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}

// Summary handles GET /api/v1/policies/{policy_number}/summary
func (h *PolicyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.CoverageSummary(r.Context(), chi.URLParam(r, "policy_number"))
	if err != nil {
		log.Error().Err(err).Msg("coverage summary failed")
		models.WriteError(w, http.StatusInternalServerError, "coverage summary failed")
		return
	}
	if !sum.Found {
		models.WriteJSON(w, http.StatusNotFound, sum)
		return
	}
	models.WriteJSON(w, http.StatusOK, sum)
}
