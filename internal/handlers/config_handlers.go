package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mcmusabe/blokhut-display/internal/services"
)

// ConfigHandler handles HTTP requests for the site config
type ConfigHandler struct {
	store *services.ConfigStore
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(store *services.ConfigStore) *ConfigHandler {
	return &ConfigHandler{store: store}
}

// GetConfig returns the site config, writing defaults on first use
// GET /api/config
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.Get()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateConfig shallow-merges the posted object into the site config
// POST /api/config
func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	cfg, err := h.store.Merge(patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
