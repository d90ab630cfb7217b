// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// SamplesHandler handles sample registration and lookup.
type SamplesHandler struct {
	deps Dependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps Dependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// sampleRequest mirrors the JSON schema for POST /samples.
type sampleRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Composition nuclide.Composition `json:"composition"`
	MassGrams   float64             `json:"mass_g"`
}

// irradiationRequest mirrors the JSON schema for
// POST /samples/{id}/irradiations.
type irradiationRequest struct {
	Location         string   `json:"location"`
	Start            string   `json:"start"`
	End              string   `json:"end"`
	PowerKW          float64  `json:"power_kw"`
	MeasuredDoseRate *float64 `json:"measured_dose_rate,omitempty"`
}

func (r irradiationRequest) validate() (activation.Irradiation, error) {
	var ev activation.Irradiation
	if strings.TrimSpace(r.Location) == "" {
		return ev, errors.New("missing location")
	}
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return ev, errors.New("invalid start; must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return ev, errors.New("invalid end; must be RFC3339")
	}
	if r.PowerKW <= 0 {
		return ev, errors.New("power_kw must be positive")
	}
	ev = activation.Irradiation{
		Location:         r.Location,
		Start:            start.UTC(),
		End:              end.UTC(),
		PowerKW:          r.PowerKW,
		MeasuredDoseRate: r.MeasuredDoseRate,
	}
	return ev, nil
}

// HandleSamples handles POST /samples and GET /samples.
func (h *SamplesHandler) HandleSamples(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req sampleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		smp, err := h.deps.RegisterSample(r.Context(), req.ID, req.Name, req.Composition, req.MassGrams)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, smp)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Samples(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// HandleSample handles GET /samples/{id} and
// POST /samples/{id}/irradiations.
func (h *SamplesHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/samples/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id, sub, _ := strings.Cut(rest, "/")

	switch {
	case sub == "" && r.Method == http.MethodGet:
		smp, err := h.deps.Sample(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, smp)
	case sub == "irradiations" && r.Method == http.MethodPost:
		var req irradiationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		ev, err := req.validate()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.RecordIrradiation(r.Context(), id, ev); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
	default:
		http.NotFound(w, r)
	}
}
