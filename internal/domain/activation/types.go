// Package activation implements the irradiation scheduler: it walks a
// sample's chronological irradiation history, alternating decay and
// production intervals, and produces the resulting isotopic inventory,
// activities and dose rate.
package activation

import (
	"time"

	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/internal/domain/xsection"
)

// AlgorithmVersion tags the activation algorithm for cache keying. Any
// change to the production model, cross-section sourcing or dose-rate
// calibration must bump it so stale cached results are recomputed.
const AlgorithmVersion = "3"

// Irradiation is one entry of a sample's irradiation log.
type Irradiation struct {
	Location string    `json:"location" koanf:"location"`
	Start    time.Time `json:"start" koanf:"start"`
	End      time.Time `json:"end" koanf:"end"`
	PowerKW  float64   `json:"power_kw" koanf:"power_kw"`
	// MeasuredDoseRate is an optional survey reading in mrem/hr,
	// carried through for comparison against the estimate.
	MeasuredDoseRate *float64 `json:"measured_dose_rate,omitempty" koanf:"measured_dose_rate"`
}

// Seconds returns the irradiation duration in seconds.
func (ir Irradiation) Seconds() float64 {
	return ir.End.Sub(ir.Start).Seconds()
}

// FluxConfiguration holds the neutron fluxes measured at a location at a
// reference reactor power, in n/cm²/s.
type FluxConfiguration struct {
	Location         string  `json:"location" koanf:"location"`
	ReferencePowerKW float64 `json:"reference_power_kw" koanf:"reference_power_kw"`
	ThermalFlux      float64 `json:"thermal_flux" koanf:"thermal_flux"`
	FastFlux         float64 `json:"fast_flux" koanf:"fast_flux"`
	// IntermediateFlux is optional: nil means the group was not
	// measured, a pointer to zero means it was measured as zero.
	IntermediateFlux *float64 `json:"intermediate_flux,omitempty" koanf:"intermediate_flux"`
	// CadmiumRatio characterizes the thermal/epithermal split; stored
	// and reported, not used in the collapse.
	CadmiumRatio *float64 `json:"cadmium_ratio,omitempty" koanf:"cadmium_ratio"`
	Notes        string   `json:"notes,omitempty" koanf:"notes"`
}

// SpectrumAt returns the flux spectrum linearly scaled from the reference
// power to the given actual power.
func (fc FluxConfiguration) SpectrumAt(powerKW float64) xsection.Spectrum {
	s := xsection.Spectrum{
		Thermal: fc.ThermalFlux,
		Fast:    fc.FastFlux,
	}
	if fc.IntermediateFlux != nil {
		s.Intermediate = *fc.IntermediateFlux
		s.HasIntermediate = true
	}
	if fc.ReferencePowerKW <= 0 {
		return s
	}
	return s.Scale(powerKW / fc.ReferencePowerKW)
}

// Input bundles everything a computation needs. The engine never mutates
// the caller's records.
type Input struct {
	Composition nuclide.Composition
	MassGrams   float64
	// Events must be ordered chronologically and non-overlapping; the
	// collaborator that records them enforces that.
	Events      []Irradiation
	FluxConfigs map[string]FluxConfiguration
	// RecordTimeline captures per-step snapshots for visualization.
	RecordTimeline bool
	// QueryTime, when set and later than the last irradiation end, adds
	// a final decayed-to-now timeline step.
	QueryTime time.Time
}
