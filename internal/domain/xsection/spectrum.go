// Package xsection resolves effective one-group cross sections for
// (nuclide, reaction) pairs by collapsing per-group data over a supplied
// flux spectrum, trying an ordered chain of data sources.
package xsection

// Spectrum is a neutron flux spectrum split into up to three energy groups,
// in n/cm²/s. The intermediate group is explicitly optional: an absent
// group collapses over the two remaining groups renormalized, while a
// present-but-zero group is a measured zero and keeps the three-group
// structure. The distinction matters for diagnostics, not for the
// collapsed value.
type Spectrum struct {
	Thermal         float64
	Fast            float64
	Intermediate    float64
	HasIntermediate bool
}

// Scale returns the spectrum linearly scaled by factor, as when converting
// reference-power fluxes to an irradiation's actual power.
func (s Spectrum) Scale(factor float64) Spectrum {
	out := s
	out.Thermal *= factor
	out.Fast *= factor
	out.Intermediate *= factor
	return out
}

// Total returns the summed flux over all populated groups.
func (s Spectrum) Total() float64 {
	t := s.Thermal + s.Fast
	if s.HasIntermediate {
		t += s.Intermediate
	}
	return t
}

// Groups reports how many energy groups the spectrum carries.
func (s Spectrum) Groups() int {
	if s.HasIntermediate {
		return 3
	}
	return 2
}

// weights returns the flux weights for the populated groups. All weights
// are zero when the total flux is zero.
func (s Spectrum) weights() (thermal, intermediate, fast float64) {
	total := s.Total()
	if total <= 0 {
		return 0, 0, 0
	}
	thermal = s.Thermal / total
	fast = s.Fast / total
	if s.HasIntermediate {
		intermediate = s.Intermediate / total
	}
	return thermal, intermediate, fast
}
