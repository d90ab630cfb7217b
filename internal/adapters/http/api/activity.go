// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"
)

// ActivityHandler handles arbitrary-date activity queries.
type ActivityHandler struct {
	deps Dependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps Dependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandleActivity handles GET /activity/{sample_id}?date=RFC3339.
// A date earlier than the sample's last irradiation end is rejected with
// 400; decaying backward is undefined.
func (h *ActivityHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathParam(r.URL.Path, "/activity/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	raw := r.URL.Query().Get("date")
	at := time.Now().UTC()
	if raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadDate)
			return
		}
		at = parsed.UTC()
	}
	snap, err := h.deps.ActivityAt(r.Context(), id, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
