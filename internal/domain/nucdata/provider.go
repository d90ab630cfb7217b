// Package nucdata defines the nuclear data provider contract and ships a
// built-in library covering common activation foils and their products.
//
// The engine never owns nuclear data; it consumes whatever implements
// Provider. The built-in Library is the in-process implementation backed by
// static reference tables (ENDF/B-VIII.0 thermal values, IAEA resonance
// integrals, NIST gamma lines).
package nucdata

import (
	"strconv"

	"github.com/okian/bateman/internal/domain/nuclide"
)

// Reaction identifies a neutron reaction channel.
type Reaction string

// NGamma is radiative capture, the only channel the activation model uses.
const NGamma Reaction = "n,gamma"

// GroupSet holds microscopic cross sections per energy group, in barns.
// Group boundaries are fixed: thermal 1e-5 eV..0.5 eV (Maxwellian),
// intermediate 0.5 eV..0.1 MeV (1/E slowing-down), fast 0.1..10 MeV.
type GroupSet struct {
	Thermal      float64
	Intermediate float64
	Fast         float64
}

// Branch is one decay mode of a nuclide.
type Branch struct {
	Daughter nuclide.Nuclide
	// Fraction is the branching ratio, 0..1. Fractions of all branches
	// of a nuclide sum to 1.
	Fraction float64
}

// DecayData describes how a nuclide decays. A zero HalfLifeSeconds means
// the nuclide is stable and Branches is empty.
type DecayData struct {
	HalfLifeSeconds float64
	Branches        []Branch
}

// Stable reports whether the nuclide does not decay.
func (d DecayData) Stable() bool { return d.HalfLifeSeconds <= 0 }

// GammaLine is a single gamma emission with its absolute intensity.
type GammaLine struct {
	EnergyMeV float64
	// IntensityPercent is the emission probability per decay, in percent.
	// Multi-gamma emitters legitimately sum above 100.
	IntensityPercent float64
}

// Provider resolves nuclear data lookups. Implementations must be safe for
// concurrent use; any lazy loading of reference tables happens exactly once.
type Provider interface {
	// CrossSection returns per-group (n,gamma) cross sections for a
	// target nuclide. The second return is false when the nuclide or
	// reaction is not covered.
	CrossSection(n nuclide.Nuclide, r Reaction) (GroupSet, bool)

	// DecayChain returns the decay data for a nuclide. Unknown nuclides
	// return false; callers treat them as stable.
	DecayChain(n nuclide.Nuclide) (DecayData, bool)

	// GammaLines returns the gamma emission lines of a nuclide, or false
	// when no gamma data is available.
	GammaLines(n nuclide.Nuclide) ([]GammaLine, bool)

	// Abundances returns the natural isotopes of an element.
	Abundances(element string) ([]nuclide.IsotopeAbundance, bool)

	// AtomicMass returns the molar mass of a nuclide in g/mol.
	AtomicMass(n nuclide.Nuclide) (float64, bool)
}

// CaptureProduct returns the (n,gamma) activation product of a target:
// the same element with mass number A+1.
func CaptureProduct(target nuclide.Nuclide) nuclide.Nuclide {
	a := target.MassNumber()
	if a <= 0 {
		return ""
	}
	return nuclide.Nuclide(target.Element() + "-" + strconv.Itoa(a+1))
}
