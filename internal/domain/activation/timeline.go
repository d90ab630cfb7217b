package activation

import (
	"sort"
	"time"

	"github.com/okian/bateman/internal/domain/nuclide"
)

// StepKind classifies a timeline entry.
type StepKind string

// Timeline step kinds, in the order they can occur.
const (
	StepInitial     StepKind = "initial"
	StepIrradiation StepKind = "irradiation"
	StepDecay       StepKind = "decay"
	StepCurrent     StepKind = "current"
)

// dominantFraction is the minimum share of total activity for an isotope
// to appear in a timeline entry's dominant list.
const dominantFraction = 0.01

// TimelineEntry is one snapshot of the inventory between scheduler steps.
// Entries are owned by their Result and recreated with it.
type TimelineEntry struct {
	Step        int               `json:"step"`
	Kind        StepKind          `json:"kind"`
	At          time.Time         `json:"at"`
	Description string            `json:"description"`
	Inventory   nuclide.Inventory `json:"inventory"`

	TotalActivityBq  float64           `json:"total_activity_bq"`
	DominantIsotopes []DominantIsotope `json:"dominant_isotopes,omitempty"`
	DoseRate1Ft      float64           `json:"dose_rate_1ft_mrem_hr"`

	// DecaySeconds is set on decay and current steps.
	DecaySeconds float64 `json:"decay_time_s,omitempty"`
	// FluenceNCm2 is flux × time for irradiation steps.
	FluenceNCm2 float64 `json:"fluence_n_cm2,omitempty"`
}

// DominantIsotope is a top contributor at a timeline step.
type DominantIsotope struct {
	Nuclide    nuclide.Nuclide `json:"nuclide"`
	ActivityBq float64         `json:"activity_bq"`
	Fraction   float64         `json:"fraction"`
}

// dominantIsotopes extracts isotopes above dominantFraction of the total,
// ordered by descending activity.
func dominantIsotopes(activities map[nuclide.Nuclide]float64, total float64) []DominantIsotope {
	if total <= 0 {
		return nil
	}
	var out []DominantIsotope
	for n, bq := range activities {
		if frac := bq / total; frac >= dominantFraction {
			out = append(out, DominantIsotope{Nuclide: n, ActivityBq: bq, Fraction: frac})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActivityBq != out[j].ActivityBq {
			return out[i].ActivityBq > out[j].ActivityBq
		}
		return out[i].Nuclide < out[j].Nuclide
	})
	return out
}
