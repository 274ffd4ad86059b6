package handler

import (
	"net/http"

	"github.com/rosterly/backend/internal/industry"
)

// IndustryHandler serves the industry configuration registry.
type IndustryHandler struct {
	registry *industry.Registry
}

func NewIndustryHandler(registry *industry.Registry) *IndustryHandler {
	return &IndustryHandler{registry: registry}
}

type industryListResponse struct {
	Default    string            `json:"default"`
	Industries []industry.Config `json:"industries"`
}

type industryResponse struct {
	RequestedKey string          `json:"requested_key"`
	ResolvedKey  string          `json:"resolved_key"`
	Industry     industry.Config `json:"industry"`
}

// List handles GET /api/industries.
func (h *IndustryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, industryListResponse{
		Default:    h.registry.DefaultKey(),
		Industries: h.registry.All(),
	})
}

// Get handles GET /api/industries/{key}. Unknown keys resolve to the default
// industry; resolved_key tells the caller which one was used.
func (h *IndustryHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	cfg := h.registry.Lookup(key)
	writeJSON(w, http.StatusOK, industryResponse{
		RequestedKey: key,
		ResolvedKey:  cfg.Key,
		Industry:     cfg,
	})
}
