// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// TimelineHandler serves recorded computation timelines.
type TimelineHandler struct {
	deps Dependencies
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps Dependencies) *TimelineHandler {
	return &TimelineHandler{deps: deps}
}

// HandleTimeline handles GET /timeline/{sample_id}. The timeline is
// computed on demand; results are served from the cache when present.
func (h *TimelineHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathParam(r.URL.Path, "/timeline/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entries, err := h.deps.Timeline(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
