// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/bateman/internal/domain/activation"
)

// FluxConfigHandler handles flux configuration management.
type FluxConfigHandler struct {
	deps Dependencies
}

// NewFluxConfigHandler creates a new flux configuration handler.
func NewFluxConfigHandler(deps Dependencies) *FluxConfigHandler {
	return &FluxConfigHandler{deps: deps}
}

// HandleList handles GET /fluxconfigs.
func (h *FluxConfigHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.FluxConfigurations(r.Context()))
}

// HandlePut handles PUT /fluxconfigs/{location}.
func (h *FluxConfigHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	location := pathParam(r.URL.Path, "/fluxconfigs/")
	if location == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	var fc activation.FluxConfiguration
	if err := json.NewDecoder(r.Body).Decode(&fc); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	fc.Location = location
	if err := h.deps.SetFluxConfiguration(r.Context(), fc); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}
