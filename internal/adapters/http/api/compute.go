// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ComputeHandler handles full-history activation computations.
type ComputeHandler struct {
	deps Dependencies
}

// NewComputeHandler creates a new compute handler.
func NewComputeHandler(deps Dependencies) *ComputeHandler {
	return &ComputeHandler{deps: deps}
}

// HandleCompute handles GET /compute/{sample_id}. The response always
// carries the success flag and the skipped-irradiation list; callers must
// check success before trusting the numbers.
func (h *ComputeHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathParam(r.URL.Path, "/compute/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	res, err := h.deps.Compute(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
