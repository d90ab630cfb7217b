// Package doserate converts isotope activity maps into an estimated
// contact dose rate for an unshielded point source at one foot in air.
package doserate

import (
	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// Default estimator configuration constants.
const (
	// DefaultK is the empirical dose-rate constant in
	// mrem/hr per (Ci · MeV) at one foot. Back-solved from reference
	// measurements: 1 Ci Co-60 at 1 ft = 1400 mrem/hr over 2.504 MeV
	// per decay gives 559; 1 Ci Cs-137 at 1 ft = 325 mrem/hr over
	// 0.563 MeV gives 577; the mean rounds to 570.
	DefaultK = 570.0

	// DefaultFallbackPerCurie is the conservative dose contribution, in
	// mrem/hr per Ci, for isotopes with no resolvable gamma data. Zero
	// would silently understate pure-beta and data-gap nuclides.
	DefaultFallbackPerCurie = 500.0

	// CurieToBq converts activities: 1 Ci = 3.7e10 Bq.
	CurieToBq = 3.7e10

	percentToFraction = 100.0
)

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithConstant overrides the calibration constant K.
func WithConstant(k float64) Option {
	return func(e *Estimator) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithFallbackPerCurie overrides the per-curie fallback for isotopes
// lacking gamma data.
func WithFallbackPerCurie(v float64) Option {
	return func(e *Estimator) {
		if v >= 0 {
			e.fallbackPerCi = v
		}
	}
}

// Note records an isotope whose dose contribution used the fallback path.
type Note struct {
	Nuclide nuclide.Nuclide `json:"nuclide"`
	Reason  string          `json:"reason"`
}

// Estimator computes dose rates from activities using calibrated
// per-decay gamma energies. Safe for concurrent use.
type Estimator struct {
	provider      nucdata.Provider
	k             float64
	fallbackPerCi float64
}

// NewEstimator creates an estimator backed by the given data provider.
func NewEstimator(p nucdata.Provider, opts ...Option) *Estimator {
	e := &Estimator{
		provider:      p,
		k:             DefaultK,
		fallbackPerCi: DefaultFallbackPerCurie,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constant returns the calibration constant in use.
func (e *Estimator) Constant() float64 { return e.k }

// GammaEnergyPerDecay returns the total gamma energy emitted per decay in
// MeV: the sum of energy × emission probability over every line, with
// library intensities read as percent. The sum is deliberately not
// normalized by the intensity total; multi-gamma emitters emit more than
// one photon per decay and averaging them was the historical bug that
// understated Co-60 by a factor of two.
func (e *Estimator) GammaEnergyPerDecay(n nuclide.Nuclide) (float64, bool) {
	lines, ok := e.provider.GammaLines(n)
	if !ok || len(lines) == 0 {
		return 0, false
	}
	var total float64
	for _, line := range lines {
		total += line.EnergyMeV * line.IntensityPercent / percentToFraction
	}
	return total, true
}

// Estimate returns the total dose rate in mrem/hr at one foot for a map of
// per-isotope activities in Bq, plus notes for every isotope that fell
// back to the conservative per-curie contribution.
func (e *Estimator) Estimate(activitiesBq map[nuclide.Nuclide]float64) (float64, []Note) {
	var total float64
	var notes []Note
	for n, bq := range activitiesBq {
		if bq <= 0 {
			continue
		}
		ci := bq / CurieToBq
		energy, ok := e.GammaEnergyPerDecay(n)
		if !ok {
			total += ci * e.fallbackPerCi
			notes = append(notes, Note{Nuclide: n, Reason: "no gamma data; conservative per-curie fallback applied"})
			continue
		}
		total += e.k * ci * energy
	}
	return total, notes
}
