// Package service provides the core business service that implements
// the dependencies required by the HTTP API: the sample and flux
// registries plus cached access to the activation engine.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bateman/internal/adapters/repository"
	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/decay"
	"github.com/okian/bateman/internal/domain/doserate"
	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/internal/domain/xsection"
	"github.com/okian/bateman/pkg/logger"
	"github.com/okian/bateman/pkg/metrics"
)

// Sample is one registered sample with its immutable composition and its
// chronological irradiation log.
type Sample struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Composition nuclide.Composition      `json:"composition"`
	MassGrams   float64                  `json:"mass_g"`
	Events      []activation.Irradiation `json:"irradiations"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCacheSize bounds the result cache.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithMinActivityFraction sets the isotope reporting threshold.
func WithMinActivityFraction(f float64) Option {
	return func(s *Service) {
		if f >= 0 && f < 1 {
			s.minActivityFraction = f
		}
	}
}

// WithDoseRateConstant overrides the dose calibration constant K.
func WithDoseRateConstant(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.doseRateK = k
		}
	}
}

// WithDoseRateFallback overrides the per-curie fallback rate used for
// isotopes without gamma line data.
func WithDoseRateFallback(rate float64) Option {
	return func(s *Service) {
		if rate >= 0 {
			s.doseRateFallback = rate
		}
	}
}

// WithMaxTimelineEntries caps recorded timeline steps per result.
func WithMaxTimelineEntries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTimelineEntries = n
		}
	}
}

// WithAlgorithmVersion overrides the algorithm version tag used for cache
// keying. Bumping it invalidates every previously cached result.
func WithAlgorithmVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.algorithmVersion = v
		}
	}
}

// WithProvider replaces the nuclear data provider.
func WithProvider(p nucdata.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// Service implements the API dependencies for the activation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider nucdata.Provider
	engine   *activation.Engine
	cache    repository.Store

	// Registries
	samples     map[string]*Sample
	fluxConfigs map[string]activation.FluxConfiguration

	// Configuration
	cacheSize           int
	minActivityFraction float64
	doseRateK           float64
	doseRateFallback    float64
	maxTimelineEntries  int
	algorithmVersion    string

	// State
	started bool

	log logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		provider:            nucdata.NewLibrary(),
		samples:             make(map[string]*Sample),
		fluxConfigs:         make(map[string]activation.FluxConfiguration),
		cacheSize:           10000,
		minActivityFraction: 0.001,
		doseRateK:           doserate.DefaultK,
		doseRateFallback:    doserate.DefaultFallbackPerCurie,
		maxTimelineEntries:  10000,
		algorithmVersion:    activation.AlgorithmVersion,
		log:                 nil, // filled on Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the engine and cache. Safe to call once; repeat calls are
// no-ops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	resolver := xsection.NewResolver(s.provider)
	decayer := decay.NewEngine(s.provider)
	estimator := doserate.NewEstimator(s.provider,
		doserate.WithConstant(s.doseRateK),
		doserate.WithFallbackPerCurie(s.doseRateFallback),
	)
	s.engine = activation.NewEngine(s.provider, resolver, decayer, estimator,
		activation.WithMinActivityFraction(s.minActivityFraction),
		activation.WithMaxTimelineSteps(s.maxTimelineEntries),
		activation.WithAlgorithmVersion(s.algorithmVersion),
		activation.WithLogger(s.log.Named("engine")),
	)
	s.cache = repository.NewMemStore(repository.WithMaxEntries(s.cacheSize))

	s.started = true
	s.log.Info(ctx, "activation service started",
		logger.String("algorithm_version", s.algorithmVersion),
		logger.Float64("dose_rate_k", s.doseRateK),
		logger.Int("cache_size", s.cacheSize),
	)
	return nil
}

// Stop releases service state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.log.Info(context.Background(), "activation service stopped")
}

// RegisterSample adds a sample with its composition and mass, assigning
// an ID when none is supplied.
func (s *Service) RegisterSample(ctx context.Context, id, name string, comp nuclide.Composition, massGrams float64) (*Sample, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	if massGrams <= 0 {
		return nil, fmt.Errorf("sample mass must be positive, got %g g", massGrams)
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.samples[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSampleExists, id)
	}
	smp := &Sample{ID: id, Name: name, Composition: comp, MassGrams: massGrams}
	s.samples[id] = smp
	metrics.UpdateRegisteredSamples(len(s.samples))
	s.log.Info(ctx, "sample registered",
		logger.String("sample", id),
		logger.Float64("mass_g", massGrams),
		logger.Int("components", len(comp)),
	)
	return cloneSample(smp), nil
}

// Sample returns a copy of a registered sample.
func (s *Service) Sample(_ context.Context, id string) (*Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	smp, ok := s.samples[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSampleNotFound, id)
	}
	return cloneSample(smp), nil
}

// Samples lists registered samples ordered by ID.
func (s *Service) Samples(_ context.Context) []*Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Sample, 0, len(s.samples))
	for _, smp := range s.samples {
		out = append(out, cloneSample(smp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateComposition replaces a sample's composition. It fails once any
// irradiation has been recorded: recorded history pins the composition.
func (s *Service) UpdateComposition(ctx context.Context, id string, comp nuclide.Composition, massGrams float64) error {
	if err := comp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	smp, ok := s.samples[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSampleNotFound, id)
	}
	if len(smp.Events) > 0 {
		return fmt.Errorf("%w: sample %s has %d irradiations", ErrCompositionSealed, id, len(smp.Events))
	}
	smp.Composition = comp
	if massGrams > 0 {
		smp.MassGrams = massGrams
	}
	s.log.Info(ctx, "sample composition updated", logger.String("sample", id))
	return nil
}

// RecordIrradiation appends an irradiation event to a sample's log.
// Overlap with an existing event is a data-quality error and is rejected
// here, at the collaborator boundary, never inside the engine.
func (s *Service) RecordIrradiation(ctx context.Context, sampleID string, ev activation.Irradiation) error {
	if !ev.End.After(ev.Start) {
		return fmt.Errorf("%w: start %s, end %s", ErrInvalidInterval,
			ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	smp, ok := s.samples[sampleID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSampleNotFound, sampleID)
	}
	for _, existing := range smp.Events {
		if ev.Start.Before(existing.End) && existing.Start.Before(ev.End) {
			metrics.RecordOverlapRejection()
			return fmt.Errorf("%w: new [%s, %s] vs existing [%s, %s]", ErrOverlappingEvent,
				ev.Start.Format(time.RFC3339), ev.End.Format(time.RFC3339),
				existing.Start.Format(time.RFC3339), existing.End.Format(time.RFC3339))
		}
	}
	smp.Events = append(smp.Events, ev)
	sort.Slice(smp.Events, func(i, j int) bool { return smp.Events[i].Start.Before(smp.Events[j].Start) })
	metrics.RecordIrradiationRecorded()
	s.log.Info(ctx, "irradiation recorded",
		logger.String("sample", sampleID),
		logger.String("location", ev.Location),
		logger.Float64("power_kw", ev.PowerKW),
		logger.Duration("duration", ev.End.Sub(ev.Start)),
	)
	return nil
}

// SetFluxConfiguration stores or replaces the flux record for a location.
func (s *Service) SetFluxConfiguration(ctx context.Context, fc activation.FluxConfiguration) error {
	if fc.Location == "" {
		return fmt.Errorf("flux configuration missing location")
	}
	if fc.ReferencePowerKW <= 0 {
		return fmt.Errorf("flux configuration for %s: reference power must be positive", fc.Location)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fluxConfigs[fc.Location] = fc
	metrics.UpdateFluxConfigurations(len(s.fluxConfigs))
	s.log.Info(ctx, "flux configuration set",
		logger.String("location", fc.Location),
		logger.Float64("thermal_flux", fc.ThermalFlux),
		logger.Float64("fast_flux", fc.FastFlux),
	)
	return nil
}

// FluxConfigurations returns a copy of the per-location flux records.
func (s *Service) FluxConfigurations(_ context.Context) map[string]activation.FluxConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]activation.FluxConfiguration, len(s.fluxConfigs))
	for loc, fc := range s.fluxConfigs {
		out[loc] = fc
	}
	return out
}

// Compute runs (or fetches from cache) the activation calculation for a
// sample over its full irradiation history.
func (s *Service) Compute(ctx context.Context, sampleID string) (*activation.Result, error) {
	s.mu.RLock()
	smp, ok := s.samples[sampleID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrSampleNotFound, sampleID)
	}
	in := activation.Input{
		Composition:    smp.Composition,
		MassGrams:      smp.MassGrams,
		Events:         append([]activation.Irradiation{}, smp.Events...),
		FluxConfigs:    s.fluxConfigsLocked(),
		RecordTimeline: true,
	}
	engine := s.engine
	cache := s.cache
	version := s.algorithmVersion
	s.mu.RUnlock()

	key := repository.NewKey(in.Composition, in.MassGrams, in.Events, version)
	start := time.Now()
	res, hit, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) (*activation.Result, error) {
		return engine.Compute(ctx, in)
	})
	if err != nil {
		metrics.RecordComputationFailure()
		metrics.RecordErrorByComponent("engine", "compute")
		return nil, err
	}
	if !hit {
		metrics.RecordComputation()
		metrics.RecordComputationLatency(float64(time.Since(start).Milliseconds()))
		metrics.RecordSkippedIrradiations(len(res.Skipped))
		metrics.RecordIsotopesPerResult(len(res.Isotopes))
		if !res.Success {
			metrics.RecordComputationFailure()
		}
	}
	s.log.Info(ctx, "activation computed",
		logger.String("sample", sampleID),
		logger.String("hash", res.Hash),
		logger.Any("cache_hit", hit),
		logger.Int("isotopes", len(res.Isotopes)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// ActivityAt answers an arbitrary-date activity query for a sample.
func (s *Service) ActivityAt(ctx context.Context, sampleID string, at time.Time) (*activation.Snapshot, error) {
	res, err := s.Compute(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	snap, err := s.engine.ActivityAt(res, at)
	if err != nil {
		metrics.RecordErrorByComponent("engine", "activity_at")
		return nil, err
	}
	return snap, nil
}

// Timeline returns the per-step snapshots recorded with a sample's result.
func (s *Service) Timeline(ctx context.Context, sampleID string) ([]activation.TimelineEntry, error) {
	res, err := s.Compute(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	return res.Timeline, nil
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events int
	for _, smp := range s.samples {
		events += len(smp.Events)
	}
	return map[string]interface{}{
		"samples":            len(s.samples),
		"irradiation_events": events,
		"flux_locations":     len(s.fluxConfigs),
		"cached_results":     s.cache.Len(context.Background()),
		"algorithm_version":  s.algorithmVersion,
		"dose_rate_k":        s.doseRateK,
	}
}

// fluxConfigsLocked copies the flux map; callers hold at least the read lock.
func (s *Service) fluxConfigsLocked() map[string]activation.FluxConfiguration {
	out := make(map[string]activation.FluxConfiguration, len(s.fluxConfigs))
	for loc, fc := range s.fluxConfigs {
		out[loc] = fc
	}
	return out
}

func cloneSample(smp *Sample) *Sample {
	cp := *smp
	cp.Composition = append(nuclide.Composition{}, smp.Composition...)
	cp.Events = append([]activation.Irradiation{}, smp.Events...)
	return &cp
}
