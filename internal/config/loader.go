package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if BATEMAN_CONFIG is set
//  3. env (prefix BATEMAN_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BATEMAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BATEMAN_ADDR, BATEMAN_CACHE_SIZE, ...
	// Map env keys like BATEMAN_CACHE_SIZE -> cache_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BATEMAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bateman_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.AlgorithmVersion == "" {
		return nil, fmt.Errorf("%w: algorithm_version must not be empty", ErrInvalidConfig)
	}
	if cfg.MinActivityFraction < 0 || cfg.MinActivityFraction >= 1 {
		return nil, fmt.Errorf("%w: min_activity_fraction must be in [0,1)", ErrInvalidConfig)
	}
	if cfg.DoseRateK <= 0 {
		return nil, fmt.Errorf("%w: dose_rate_k must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
