package nuclide

import (
	"fmt"
	"math"
)

// Avogadro's number, atoms per mole.
const Avogadro = 6.022e23

// fractionTolerance bounds the allowed deviation of the fraction sum from 1.
const fractionTolerance = 1e-6

// Component is one entry of a sample composition: either a specific nuclide
// or a bare element expanded to its natural isotopes, with its mass fraction.
type Component struct {
	// Element symbol, e.g. "Au". Required.
	Element string `json:"element" koanf:"element"`
	// Isotope pins the component to one nuclide, e.g. "Au-197". Optional;
	// when empty the element's natural isotopic abundances apply.
	Isotope Nuclide `json:"isotope,omitempty" koanf:"isotope"`
	// Fraction is the mass fraction of this component, 0..1.
	Fraction float64 `json:"fraction" koanf:"fraction"`
}

// Composition is the ordered set of components describing a sample.
// It is immutable once an irradiation has been recorded against the sample;
// that invariant is enforced at the service boundary, not here.
type Composition []Component

// IsotopeAbundance is one natural isotope of an element with its atom
// fraction (0..1) and molar mass in g/mol.
type IsotopeAbundance struct {
	Nuclide   Nuclide
	Fraction  float64
	MolarMass float64
}

// AbundanceSource resolves natural isotopic abundances and molar masses.
// The nuclear data library implements it.
type AbundanceSource interface {
	Abundances(element string) ([]IsotopeAbundance, bool)
	AtomicMass(n Nuclide) (float64, bool)
}

// Validate checks structural invariants: at least one component, fractions
// in range and summing to 1 within tolerance.
func (c Composition) Validate() error {
	if len(c) == 0 {
		return ErrEmptyComposition
	}
	var sum float64
	for i, comp := range c {
		if comp.Element == "" {
			return fmt.Errorf("component %d: missing element", i)
		}
		if comp.Fraction <= 0 || comp.Fraction > 1 {
			return fmt.Errorf("component %d (%s): fraction %g out of range", i, comp.Element, comp.Fraction)
		}
		if comp.Isotope != "" && comp.Isotope.Element() != comp.Element {
			return fmt.Errorf("component %d: isotope %s does not belong to element %s", i, comp.Isotope, comp.Element)
		}
		sum += comp.Fraction
	}
	if math.Abs(sum-1) > fractionTolerance {
		return fmt.Errorf("%w: sum = %.9f", ErrFractionSum, sum)
	}
	return nil
}

// Atoms expands the composition into an inventory of atom counts for a
// sample of the given mass. Elements without a pinned isotope expand to
// their natural isotopes by atom fraction; N = m·f·N_A / M per isotope.
func (c Composition) Atoms(massGrams float64, src AbundanceSource) (Inventory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if massGrams <= 0 {
		return nil, fmt.Errorf("sample mass must be positive, got %g g", massGrams)
	}
	inv := NewInventory()
	for _, comp := range c {
		componentMass := massGrams * comp.Fraction
		if comp.Isotope != "" {
			molar, ok := src.AtomicMass(comp.Isotope)
			if !ok {
				// Mass number is an adequate molar-mass stand-in for
				// nuclides outside the library.
				molar = float64(comp.Isotope.MassNumber())
			}
			inv.Add(comp.Isotope, componentMass*Avogadro/molar)
			continue
		}
		isotopes, ok := src.Abundances(comp.Element)
		if !ok {
			return nil, fmt.Errorf("no abundance data for element %s", comp.Element)
		}
		// Convert the element's mass to atoms using the abundance-weighted
		// mean molar mass, then split by atom fraction.
		var meanMolar float64
		for _, iso := range isotopes {
			meanMolar += iso.Fraction * iso.MolarMass
		}
		totalAtoms := componentMass * Avogadro / meanMolar
		for _, iso := range isotopes {
			inv.Add(iso.Nuclide, totalAtoms*iso.Fraction)
		}
	}
	return inv, nil
}
