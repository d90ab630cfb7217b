// Package metrics provides Prometheus metrics for the activation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the activation service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Engine metrics
	computations        prometheus.Counter
	computationFailures prometheus.Counter
	computationLatency  prometheus.Histogram
	skippedIrradiations prometheus.Counter
	excludedNuclides    prometheus.Counter
	isotopesPerResult   prometheus.Histogram

	// Cache metrics
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cachedResults  prometheus.Gauge

	// Registry metrics
	registeredSamples    prometheus.Gauge
	fluxConfigurations   prometheus.Gauge
	irradiationsRecorded prometheus.Counter
	overlapRejections    prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bateman",
		subsystem:        "activation",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.computations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computations_total",
		Help:      "Total number of activation computations run",
	})
	m.computationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computation_failures_total",
		Help:      "Total number of computations that returned an unsuccessful result or error",
	})
	m.computationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computation_latency_milliseconds",
		Help:      "Histogram of activation computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.skippedIrradiations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "skipped_irradiations_total",
		Help:      "Total number of irradiation events skipped for missing flux data",
	})
	m.excludedNuclides = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "excluded_nuclides_total",
		Help:      "Total number of target nuclides excluded because no data source resolved a cross section",
	})
	m.isotopesPerResult = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "isotopes_per_result",
		Help:      "Histogram of reported isotope counts per computation",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of result-cache hits",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of result-cache misses",
	})
	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_evictions_total",
		Help:      "Total number of cached results evicted by the size bound",
	})
	m.cachedResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cached_results",
		Help:      "Current number of cached activation results",
	})

	m.registeredSamples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registered_samples",
		Help:      "Current number of registered samples",
	})
	m.fluxConfigurations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flux_configurations",
		Help:      "Current number of flux configurations",
	})
	m.irradiationsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "irradiations_recorded_total",
		Help:      "Total number of irradiation events recorded",
	})
	m.overlapRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overlap_rejections_total",
		Help:      "Total number of irradiation events rejected for overlapping an existing one",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Histogram of average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total errors by component and type",
	}, []string{"component", "type"})
}

// RecordComputation increments the computation counter.
func RecordComputation() {
	globalManager.computations.Inc()
}

// RecordComputationFailure increments the failed-computation counter.
func RecordComputationFailure() {
	globalManager.computationFailures.Inc()
}

// RecordComputationLatency records a computation duration in milliseconds.
func RecordComputationLatency(latencyMs float64) {
	globalManager.computationLatency.Observe(latencyMs)
}

// RecordSkippedIrradiations adds to the skipped-irradiation counter.
func RecordSkippedIrradiations(n int) {
	globalManager.skippedIrradiations.Add(float64(n))
}

// RecordExcludedNuclide increments the unresolved-cross-section counter.
func RecordExcludedNuclide() {
	globalManager.excludedNuclides.Inc()
}

// RecordIsotopesPerResult records the reported isotope count of a result.
func RecordIsotopesPerResult(n int) {
	globalManager.isotopesPerResult.Observe(float64(n))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheEviction increments the cache eviction counter.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCachedResults sets the cached-result gauge.
func UpdateCachedResults(n int) {
	globalManager.cachedResults.Set(float64(n))
}

// UpdateRegisteredSamples sets the registered-sample gauge.
func UpdateRegisteredSamples(n int) {
	globalManager.registeredSamples.Set(float64(n))
}

// UpdateFluxConfigurations sets the flux-configuration gauge.
func UpdateFluxConfigurations(n int) {
	globalManager.fluxConfigurations.Set(float64(n))
}

// RecordIrradiationRecorded increments the recorded-irradiation counter.
func RecordIrradiationRecorded() {
	globalManager.irradiationsRecorded.Inc()
}

// RecordOverlapRejection increments the overlap-rejection counter.
func RecordOverlapRejection() {
	globalManager.overlapRejections.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap-allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
