package nucdata

import (
	"sync"

	"github.com/okian/bateman/internal/domain/nuclide"
)

// Time unit constants used by the reference tables.
const (
	minute = 60.0
	hour   = 3600.0
	day    = 86400.0
	year   = 365.25 * day
)

// captureEntry is one row of the multi-group capture table.
type captureEntry struct {
	target nuclide.Nuclide
	groups GroupSet
}

// decayEntry is one row of the decay table.
type decayEntry struct {
	n        nuclide.Nuclide
	halfLife float64 // seconds; 0 = stable
	branches []Branch
}

// gammaEntry lists the gamma lines of one nuclide.
type gammaEntry struct {
	n     nuclide.Nuclide
	lines []GammaLine
}

// abundanceEntry lists the natural isotopes of one element.
type abundanceEntry struct {
	element  string
	isotopes []nuclide.IsotopeAbundance
}

// Thermal values are 2200 m/s capture cross sections (ENDF/B-VIII.0).
// Intermediate values are resonance integrals collapsed over the group's
// lethargy width (ln(1e5 eV / 0.5 eV) ~ 12.2). Fast values are spectrum-
// averaged capture over the fission-like group.
var captureTable = []captureEntry{
	{"Au-197", GroupSet{Thermal: 98.65, Intermediate: 127.7, Fast: 0.084}},
	{"Al-27", GroupSet{Thermal: 0.231, Intermediate: 0.014, Fast: 0.0006}},
	{"Cu-63", GroupSet{Thermal: 4.50, Intermediate: 0.407, Fast: 0.0098}},
	{"Cu-65", GroupSet{Thermal: 2.17, Intermediate: 0.178, Fast: 0.0065}},
	{"Co-59", GroupSet{Thermal: 37.18, Intermediate: 6.08, Fast: 0.0061}},
	{"Mn-55", GroupSet{Thermal: 13.3, Intermediate: 1.15, Fast: 0.0027}},
	{"Na-23", GroupSet{Thermal: 0.530, Intermediate: 0.025, Fast: 0.0003}},
	{"Fe-54", GroupSet{Thermal: 2.25, Intermediate: 0.098, Fast: 0.0019}},
	{"Fe-56", GroupSet{Thermal: 2.59, Intermediate: 0.115, Fast: 0.0014}},
	{"Fe-57", GroupSet{Thermal: 2.48, Intermediate: 0.131, Fast: 0.0011}},
	{"Fe-58", GroupSet{Thermal: 1.28, Intermediate: 0.109, Fast: 0.0013}},
	{"Ni-58", GroupSet{Thermal: 4.6, Intermediate: 0.181, Fast: 0.0064}},
	{"Ni-60", GroupSet{Thermal: 2.9, Intermediate: 0.125, Fast: 0.0029}},
	{"Ni-62", GroupSet{Thermal: 14.5, Intermediate: 0.541, Fast: 0.0098}},
	{"Ni-64", GroupSet{Thermal: 1.52, Intermediate: 0.090, Fast: 0.0011}},
}

// Half-lives follow the values the flux-monitor community actually uses;
// a stable daughter is listed with halfLife 0 and no branches.
var decayTable = []decayEntry{
	// Targets and end products are stable.
	{"Au-197", 0, nil},
	{"Al-27", 0, nil},
	{"Cu-63", 0, nil},
	{"Cu-65", 0, nil},
	{"Co-59", 0, nil},
	{"Mn-55", 0, nil},
	{"Na-23", 0, nil},
	{"Fe-54", 0, nil},
	{"Fe-56", 0, nil},
	{"Fe-57", 0, nil},
	{"Fe-58", 0, nil},
	{"Ni-58", 0, nil},
	{"Ni-60", 0, nil},
	{"Ni-61", 0, nil},
	{"Ni-62", 0, nil},
	{"Ni-64", 0, nil},
	{"Hg-198", 0, nil},
	{"Si-28", 0, nil},
	{"Zn-64", 0, nil},
	{"Zn-66", 0, nil},
	{"Fe-55", 2.73 * year, []Branch{{Daughter: "Mn-55", Fraction: 1}}},
	{"Fe-59", 44.503 * day, []Branch{{Daughter: "Co-59", Fraction: 1}}},
	{"Mg-24", 0, nil},
	// Activation products.
	{"Au-198", 2.6941 * day, []Branch{{Daughter: "Hg-198", Fraction: 1}}},
	{"Al-28", 134.4 * minute, []Branch{{Daughter: "Si-28", Fraction: 1}}},
	{"Cu-64", 12.7 * hour, []Branch{
		{Daughter: "Ni-64", Fraction: 0.615},
		{Daughter: "Zn-64", Fraction: 0.385},
	}},
	{"Cu-66", 5.12 * minute, []Branch{{Daughter: "Zn-66", Fraction: 1}}},
	{"Co-60", 1925.28 * day, []Branch{{Daughter: "Ni-60", Fraction: 1}}},
	{"Mn-56", 2.5789 * hour, []Branch{{Daughter: "Fe-56", Fraction: 1}}},
	{"Na-24", 14.997 * hour, []Branch{{Daughter: "Mg-24", Fraction: 1}}},
	{"Ni-59", 76000 * year, []Branch{{Daughter: "Co-59", Fraction: 1}}},
	{"Ni-63", 100.1 * year, []Branch{{Daughter: "Cu-63", Fraction: 1}}},
	{"Ni-65", 2.5172 * hour, []Branch{{Daughter: "Cu-65", Fraction: 1}}},
	// Reference sources used for dose calibration checks.
	{"Cs-137", 10986.72 * day, []Branch{{Daughter: "Ba-137", Fraction: 1}}},
	{"Ba-137", 0, nil},
}

// Absolute intensities in percent per decay (NIST RadData). Fe-55, Ni-59
// and Ni-63 decay without usable gammas and are deliberately absent; the
// dose estimator applies its conservative fallback to them.
var gammaTable = []gammaEntry{
	{"Au-198", []GammaLine{
		{EnergyMeV: 0.41180, IntensityPercent: 95.58},
		{EnergyMeV: 0.67588, IntensityPercent: 0.84},
		{EnergyMeV: 1.08768, IntensityPercent: 0.17},
	}},
	{"Al-28", []GammaLine{
		{EnergyMeV: 1.77897, IntensityPercent: 100.0},
	}},
	{"Cu-64", []GammaLine{
		{EnergyMeV: 0.511, IntensityPercent: 35.2}, // annihilation, both quanta
		{EnergyMeV: 1.34577, IntensityPercent: 0.475},
	}},
	{"Cu-66", []GammaLine{
		{EnergyMeV: 1.03920, IntensityPercent: 9.23},
	}},
	{"Co-60", []GammaLine{
		{EnergyMeV: 1.17323, IntensityPercent: 99.85},
		{EnergyMeV: 1.33249, IntensityPercent: 99.98},
	}},
	{"Mn-56", []GammaLine{
		{EnergyMeV: 0.84676, IntensityPercent: 98.85},
		{EnergyMeV: 1.81073, IntensityPercent: 26.9},
		{EnergyMeV: 2.11309, IntensityPercent: 14.2},
	}},
	{"Na-24", []GammaLine{
		{EnergyMeV: 1.36863, IntensityPercent: 99.994},
		{EnergyMeV: 2.75401, IntensityPercent: 99.87},
	}},
	{"Fe-59", []GammaLine{
		{EnergyMeV: 1.09925, IntensityPercent: 56.5},
		{EnergyMeV: 1.29159, IntensityPercent: 43.2},
		{EnergyMeV: 0.19234, IntensityPercent: 3.08},
	}},
	{"Ni-65", []GammaLine{
		{EnergyMeV: 1.48184, IntensityPercent: 24.0},
		{EnergyMeV: 1.11555, IntensityPercent: 15.4},
		{EnergyMeV: 0.36627, IntensityPercent: 4.81},
	}},
	{"Cs-137", []GammaLine{
		{EnergyMeV: 0.66166, IntensityPercent: 85.1},
	}},
}

var abundanceTable = []abundanceEntry{
	{"Au", []nuclide.IsotopeAbundance{
		{Nuclide: "Au-197", Fraction: 1.0, MolarMass: 196.9666},
	}},
	{"Al", []nuclide.IsotopeAbundance{
		{Nuclide: "Al-27", Fraction: 1.0, MolarMass: 26.9815},
	}},
	{"Cu", []nuclide.IsotopeAbundance{
		{Nuclide: "Cu-63", Fraction: 0.6915, MolarMass: 62.9296},
		{Nuclide: "Cu-65", Fraction: 0.3085, MolarMass: 64.9278},
	}},
	{"Co", []nuclide.IsotopeAbundance{
		{Nuclide: "Co-59", Fraction: 1.0, MolarMass: 58.9332},
	}},
	{"Mn", []nuclide.IsotopeAbundance{
		{Nuclide: "Mn-55", Fraction: 1.0, MolarMass: 54.9380},
	}},
	{"Na", []nuclide.IsotopeAbundance{
		{Nuclide: "Na-23", Fraction: 1.0, MolarMass: 22.9898},
	}},
	{"Fe", []nuclide.IsotopeAbundance{
		{Nuclide: "Fe-54", Fraction: 0.05845, MolarMass: 53.9396},
		{Nuclide: "Fe-56", Fraction: 0.91754, MolarMass: 55.9349},
		{Nuclide: "Fe-57", Fraction: 0.02119, MolarMass: 56.9354},
		{Nuclide: "Fe-58", Fraction: 0.00282, MolarMass: 57.9333},
	}},
	{"Ni", []nuclide.IsotopeAbundance{
		{Nuclide: "Ni-58", Fraction: 0.68077, MolarMass: 57.9353},
		{Nuclide: "Ni-60", Fraction: 0.26223, MolarMass: 59.9308},
		{Nuclide: "Ni-61", Fraction: 0.011399, MolarMass: 60.9311},
		{Nuclide: "Ni-62", Fraction: 0.036346, MolarMass: 61.9283},
		{Nuclide: "Ni-64", Fraction: 0.009255, MolarMass: 63.9280},
	}},
}

// Library is the built-in Provider. Index maps build lazily on first use
// and are immutable afterwards, so concurrent lookups need no locking.
type Library struct {
	once       sync.Once
	capture    map[nuclide.Nuclide]GroupSet
	decay      map[nuclide.Nuclide]DecayData
	gamma      map[nuclide.Nuclide][]GammaLine
	abundances map[string][]nuclide.IsotopeAbundance
	masses     map[nuclide.Nuclide]float64
}

// NewLibrary returns the built-in nuclear data library.
func NewLibrary() *Library {
	return &Library{}
}

func (l *Library) load() {
	l.once.Do(func() {
		l.capture = make(map[nuclide.Nuclide]GroupSet, len(captureTable))
		for _, e := range captureTable {
			l.capture[e.target] = e.groups
		}
		l.decay = make(map[nuclide.Nuclide]DecayData, len(decayTable))
		for _, e := range decayTable {
			l.decay[e.n] = DecayData{HalfLifeSeconds: e.halfLife, Branches: e.branches}
		}
		l.gamma = make(map[nuclide.Nuclide][]GammaLine, len(gammaTable))
		for _, e := range gammaTable {
			l.gamma[e.n] = e.lines
		}
		l.abundances = make(map[string][]nuclide.IsotopeAbundance, len(abundanceTable))
		l.masses = make(map[nuclide.Nuclide]float64)
		for _, e := range abundanceTable {
			l.abundances[e.element] = e.isotopes
			for _, iso := range e.isotopes {
				l.masses[iso.Nuclide] = iso.MolarMass
			}
		}
	})
}

// CrossSection implements Provider.
func (l *Library) CrossSection(n nuclide.Nuclide, r Reaction) (GroupSet, bool) {
	if r != NGamma {
		return GroupSet{}, false
	}
	l.load()
	gs, ok := l.capture[n]
	return gs, ok
}

// DecayChain implements Provider.
func (l *Library) DecayChain(n nuclide.Nuclide) (DecayData, bool) {
	l.load()
	d, ok := l.decay[n]
	return d, ok
}

// GammaLines implements Provider.
func (l *Library) GammaLines(n nuclide.Nuclide) ([]GammaLine, bool) {
	l.load()
	lines, ok := l.gamma[n]
	return lines, ok
}

// Abundances implements Provider and nuclide.AbundanceSource.
func (l *Library) Abundances(element string) ([]nuclide.IsotopeAbundance, bool) {
	l.load()
	iso, ok := l.abundances[element]
	return iso, ok
}

// AtomicMass implements Provider and nuclide.AbundanceSource.
func (l *Library) AtomicMass(n nuclide.Nuclide) (float64, bool) {
	l.load()
	m, ok := l.masses[n]
	return m, ok
}
