// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/bateman/internal/app"
	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	RegisterSample(ctx context.Context, id, name string, comp nuclide.Composition, massGrams float64) (*service.Sample, error)
	Sample(ctx context.Context, id string) (*service.Sample, error)
	Samples(ctx context.Context) []*service.Sample
	RecordIrradiation(ctx context.Context, sampleID string, ev activation.Irradiation) error
	SetFluxConfiguration(ctx context.Context, fc activation.FluxConfiguration) error
	FluxConfigurations(ctx context.Context) map[string]activation.FluxConfiguration

	Compute(ctx context.Context, sampleID string) (*activation.Result, error)
	ActivityAt(ctx context.Context, sampleID string, at time.Time) (*activation.Snapshot, error)
	Timeline(ctx context.Context, sampleID string) ([]activation.TimelineEntry, error)
}

// Server wires HTTP routes for the activation API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	samplesHandler  *SamplesHandler
	fluxHandler     *FluxConfigHandler
	computeHandler  *ComputeHandler
	activityHandler *ActivityHandler
	timelineHandler *TimelineHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		samplesHandler:  NewSamplesHandler(deps),
		fluxHandler:     NewFluxConfigHandler(deps),
		computeHandler:  NewComputeHandler(deps),
		activityHandler: NewActivityHandler(deps),
		timelineHandler: NewTimelineHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandleSamples, "samples"))
	mux.HandleFunc("/samples/", MetricsMiddleware(s.samplesHandler.HandleSample, "sample"))
	mux.HandleFunc("/fluxconfigs", MetricsMiddleware(s.fluxHandler.HandleList, "fluxconfigs"))
	mux.HandleFunc("/fluxconfigs/", MetricsMiddleware(s.fluxHandler.HandlePut, "fluxconfig"))
	mux.HandleFunc("/compute/", MetricsMiddleware(s.computeHandler.HandleCompute, "compute"))
	mux.HandleFunc("/activity/", MetricsMiddleware(s.activityHandler.HandleActivity, "activity"))
	mux.HandleFunc("/timeline/", MetricsMiddleware(s.timelineHandler.HandleTimeline, "timeline"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathParam extracts the single path segment after prefix, or "" when the
// path is malformed.
func pathParam(path, prefix string) string {
	p := strings.TrimPrefix(path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return ""
	}
	return p
}

// writeServiceError translates service/engine errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSampleNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, activation.ErrTargetBeforeReference),
		errors.Is(err, activation.ErrNoEvents),
		errors.Is(err, activation.ErrUnorderedEvents),
		errors.Is(err, service.ErrOverlappingEvent),
		errors.Is(err, service.ErrInvalidInterval),
		errors.Is(err, service.ErrCompositionSealed),
		errors.Is(err, service.ErrSampleExists),
		errors.Is(err, nuclide.ErrEmptyComposition),
		errors.Is(err, nuclide.ErrFractionSum),
		errors.Is(err, nuclide.ErrBadNuclide):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
