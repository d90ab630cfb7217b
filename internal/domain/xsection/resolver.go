package xsection

import (
	"fmt"

	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// Resolution records which source served a lookup, for diagnostics.
type Resolution struct {
	Source string
	Groups nucdata.GroupSet
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSources replaces the default source chain. Sources are tried in the
// order given.
func WithSources(sources ...Source) Option {
	return func(r *Resolver) {
		if len(sources) > 0 {
			r.sources = sources
		}
	}
}

// Resolver collapses per-group cross sections to an effective one-group
// value using flux weighting. It is stateless after construction and safe
// for concurrent use.
type Resolver struct {
	sources []Source
}

// NewResolver builds a resolver with the default prioritized chain:
// multigroup provider, then the activation file, then the hardcoded
// foil table.
func NewResolver(provider nucdata.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		sources: []Source{
			&multigroupSource{provider: provider},
			&activationFileSource{},
			&fallbackSource{},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Effective returns the spectrum-collapsed cross section in barns:
// σ_eff = Σ_g σ_g·w_g with w_g = φ_g/Σφ over the populated groups.
// Fast-group values are looked up, never derived by scaling thermal data.
// ErrUnresolved is returned when every source reports not-found; callers
// exclude the nuclide from activation rather than aborting.
func (r *Resolver) Effective(n nuclide.Nuclide, reaction nucdata.Reaction, s Spectrum) (float64, Resolution, error) {
	for _, src := range r.sources {
		groups, ok := src.Lookup(n, reaction)
		if !ok {
			continue
		}
		wTh, wInt, wFast := s.weights()
		eff := groups.Thermal*wTh + groups.Fast*wFast
		if s.HasIntermediate {
			eff += groups.Intermediate * wInt
		}
		return eff, Resolution{Source: src.Name(), Groups: groups}, nil
	}
	return 0, Resolution{}, fmt.Errorf("%w: %s (%s)", ErrUnresolved, n, reaction)
}
