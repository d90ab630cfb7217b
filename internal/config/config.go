// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AlgorithmVersion tags cached results. Bumping it invalidates every
	// stored computation on the next lookup.
	AlgorithmVersion string `koanf:"algorithm_version"`

	// DoseRateK is the point-source dose constant in
	// (mrem/hr)/(Ci·MeV) at one foot.
	DoseRateK float64 `koanf:"dose_rate_k"`

	// DoseRateFallbackPerCurie applies to isotopes without gamma line data.
	DoseRateFallbackPerCurie float64 `koanf:"dose_rate_fallback_per_curie"`

	// MinActivityFraction is the coalescing threshold: isotopes below this
	// fraction of total activity are folded into "Other Isotopes".
	MinActivityFraction float64 `koanf:"min_activity_fraction"`

	// CacheSize bounds the number of cached computation results.
	CacheSize int `koanf:"cache_size"`

	// MaxTimelineEntries caps the number of timeline steps per result.
	MaxTimelineEntries int `koanf:"max_timeline_entries"`

	// FluxLibrary optionally points at a YAML file of flux configurations
	// loaded at startup.
	FluxLibrary string `koanf:"flux_library"`

	// SampleLibrary optionally points at a YAML file of sample definitions
	// loaded at startup.
	SampleLibrary string `koanf:"sample_library"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":9080",
		AlgorithmVersion:         "3",
		DoseRateK:                570,
		DoseRateFallbackPerCurie: 500,
		MinActivityFraction:      0.001,
		CacheSize:                10_000,
		MaxTimelineEntries:       10_000,
	}
}
