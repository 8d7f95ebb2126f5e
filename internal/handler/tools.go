package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/tools"
)

const maxBodyBytes = 1 << 20

// ToolHandler exposes the tool registry over HTTP
type ToolHandler struct {
	registry *tools.Registry
}

func NewToolHandler(registry *tools.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// List handles GET /api/v1/tools
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()
	infos := make([]tools.Info, len(list))
	for i, t := range list {
		infos[i] = t.Info()
	}
	models.WriteJSON(w, http.StatusOK, models.ToolListResponse{
		Status: "success",
		Count:  len(infos),
		Tools:  infos,
	})
}

// Invoke handles POST /api/v1/tools/{name}. The body is the tool's JSON
// arguments; the response is the tool's JSON result, including
// {"error": ...} results.
func (h *ToolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		models.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	out, err := h.registry.Invoke(r.Context(), name, body)
	if errors.Is(err, tools.ErrUnknownTool) {
		models.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
