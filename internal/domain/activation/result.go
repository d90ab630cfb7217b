package activation

import (
	"fmt"
	"time"

	"github.com/okian/bateman/internal/domain/doserate"
	"github.com/okian/bateman/internal/domain/nuclide"
)

// IsotopeActivity reports one isotope's contribution at the reference time.
type IsotopeActivity struct {
	ActivityBq      float64 `json:"activity_bq"`
	ActivityCi      float64 `json:"activity_ci"`
	Atoms           float64 `json:"atoms"`
	Fraction        float64 `json:"fraction"`
	HalfLifeSeconds float64 `json:"half_life_s"`
	HalfLifeDisplay string  `json:"half_life_display"`
}

// SkippedIrradiation records an event that could not be applied, with
// enough detail for a UI to render an explicit warning.
type SkippedIrradiation struct {
	Location        string    `json:"location"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	PowerKW         float64   `json:"power_kw"`
	DurationSeconds float64   `json:"duration_s"`
	Reason          string    `json:"reason"`
}

// Result is the outcome of a computation. Callers must check Success
// before trusting any numeric field.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Hash             string    `json:"hash,omitempty"`
	AlgorithmVersion string    `json:"algorithm_version"`
	ReferenceTime    time.Time `json:"reference_time"`
	CalculatedAt     time.Time `json:"calculated_at"`

	// Inventory is the raw atom inventory at the reference time. It
	// keeps every nuclide, including those coalesced out of Isotopes,
	// so further decay queries stay exact.
	Inventory nuclide.Inventory `json:"inventory"`

	// Isotopes lists the activities above the reporting threshold.
	Isotopes        map[nuclide.Nuclide]IsotopeActivity `json:"isotopes"`
	TotalActivityBq float64                             `json:"total_activity_bq"`

	DoseRate1Ft float64         `json:"dose_rate_1ft_mrem_hr"`
	DoseNotes   []doserate.Note `json:"dose_notes,omitempty"`

	// Coalesced totals cover isotopes below the reporting threshold.
	CoalescedActivityBq float64 `json:"coalesced_activity_bq,omitempty"`
	CoalescedIsotopes   int     `json:"coalesced_isotopes,omitempty"`

	Skipped  []SkippedIrradiation `json:"skipped_irradiations"`
	Timeline []TimelineEntry      `json:"timeline,omitempty"`
}

// Snapshot is the answer to an arbitrary-date activity query.
type Snapshot struct {
	At              time.Time                           `json:"at"`
	DecaySeconds    float64                             `json:"decay_time_s"`
	Isotopes        map[nuclide.Nuclide]IsotopeActivity `json:"isotopes"`
	TotalActivityBq float64                             `json:"total_activity_bq"`
	DoseRate1Ft     float64                             `json:"dose_rate_1ft_mrem_hr"`
	DoseNotes       []doserate.Note                     `json:"dose_notes,omitempty"`
}

// FormatHalfLife renders a half-life in seconds as a human-scaled string.
func FormatHalfLife(seconds float64) string {
	switch {
	case seconds <= 0:
		return "stable"
	case seconds < 60:
		return fmt.Sprintf("%.2f s", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.2f min", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.2f h", seconds/3600)
	case seconds < 365.25*86400:
		return fmt.Sprintf("%.2f d", seconds/86400)
	default:
		return fmt.Sprintf("%.2f y", seconds/(365.25*86400))
	}
}
