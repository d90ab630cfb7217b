package activation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/bateman/internal/domain/decay"
	"github.com/okian/bateman/internal/domain/doserate"
	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/internal/domain/xsection"
	"github.com/okian/bateman/pkg/logger"
	"github.com/okian/bateman/pkg/metrics"
)

// Default engine configuration constants.
const (
	// defaultMinActivityFraction coalesces isotopes below 0.1% of total
	// activity out of the reported map. They stay in the raw inventory.
	defaultMinActivityFraction = 0.001

	// defaultMaxTimelineSteps caps recorded timeline entries per result;
	// histories longer than the cap keep computing but stop recording.
	defaultMaxTimelineSteps = 10_000

	barnToCm2 = 1e-24
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinActivityFraction sets the reporting threshold for isotopes.
func WithMinActivityFraction(f float64) Option {
	return func(e *Engine) {
		if f >= 0 && f < 1 {
			e.minActivityFraction = f
		}
	}
}

// WithMaxTimelineSteps caps the number of recorded timeline entries.
func WithMaxTimelineSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTimelineSteps = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithAlgorithmVersion overrides the version tag reported on results.
// The cache includes it in the content hash, so changing it is the
// deliberate, testable way to invalidate previously computed results.
func WithAlgorithmVersion(v string) Option {
	return func(e *Engine) {
		if v != "" {
			e.version = v
		}
	}
}

// stepState is the fold state carried across the event walk.
type stepState struct {
	inventory nuclide.Inventory
	refTime   time.Time
	hasRef    bool
	skipped   []SkippedIrradiation
	applied   int
}

// Engine runs the sequential production/decay schedule. Each Compute call
// is a pure function of its input plus the nuclear data provider; the
// engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	provider  nucdata.Provider
	resolver  *xsection.Resolver
	decayer   *decay.Engine
	estimator *doserate.Estimator

	minActivityFraction float64
	maxTimelineSteps    int
	version             string
	log                 logger.Logger
}

// NewEngine wires an activation engine from its collaborators.
func NewEngine(provider nucdata.Provider, resolver *xsection.Resolver, decayer *decay.Engine, estimator *doserate.Estimator, opts ...Option) *Engine {
	e := &Engine{
		provider:            provider,
		resolver:            resolver,
		decayer:             decayer,
		estimator:           estimator,
		minActivityFraction: defaultMinActivityFraction,
		maxTimelineSteps:    defaultMaxTimelineSteps,
		version:             AlgorithmVersion,
		log:                 logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version returns the algorithm version tag in effect.
func (e *Engine) Version() string { return e.version }

// Compute walks the ordered irradiation history and returns the final
// inventory, activities, dose rate and skip diagnostics. An empty history
// is an invalid query; a history whose every event lacks flux data yields
// an unsuccessful Result rather than an error, so the skip list still
// reaches the caller.
func (e *Engine) Compute(ctx context.Context, in Input) (*Result, error) {
	if len(in.Events) == 0 {
		return nil, ErrNoEvents
	}
	for i := 1; i < len(in.Events); i++ {
		if in.Events[i].Start.Before(in.Events[i-1].End) {
			return nil, fmt.Errorf("%w: event %d starts before event %d ends", ErrUnorderedEvents, i, i-1)
		}
	}

	inv, err := in.Composition.Atoms(in.MassGrams, e.provider)
	if err != nil {
		return nil, fmt.Errorf("expand composition: %w", err)
	}

	st := stepState{inventory: inv}
	var timeline []TimelineEntry
	if in.RecordTimeline {
		timeline = e.recordStep(timeline, e.timelineEntry(0, StepInitial, in.Events[0].Start, st.inventory, "initial composition"))
	}

	for _, ev := range in.Events {
		st, timeline, err = e.step(ctx, st, ev, in, timeline)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{
		AlgorithmVersion: e.version,
		CalculatedAt:     time.Now().UTC(),
		ReferenceTime:    st.refTime,
		Inventory:        st.inventory,
		Skipped:          st.skipped,
		Timeline:         timeline,
	}
	if st.applied == 0 {
		res.Success = false
		res.Error = errAllIrradiationsSkipped.Error()
		res.Isotopes = map[nuclide.Nuclide]IsotopeActivity{}
		return res, nil
	}

	e.fillActivities(res)

	if in.RecordTimeline && !in.QueryTime.IsZero() && in.QueryTime.After(st.refTime) {
		snap, err := e.ActivityAt(res, in.QueryTime)
		if err == nil {
			entry := TimelineEntry{
				Step:            len(res.Timeline),
				Kind:            StepCurrent,
				At:              in.QueryTime,
				Description:     "decayed to query date",
				TotalActivityBq: snap.TotalActivityBq,
				DoseRate1Ft:     snap.DoseRate1Ft,
				DecaySeconds:    snap.DecaySeconds,
			}
			for n, iso := range snap.Isotopes {
				if iso.Fraction >= dominantFraction {
					entry.DominantIsotopes = append(entry.DominantIsotopes, DominantIsotope{
						Nuclide: n, ActivityBq: iso.ActivityBq, Fraction: iso.Fraction,
					})
				}
			}
			res.Timeline = e.recordStep(res.Timeline, entry)
		}
	}

	res.Success = true
	return res, nil
}

// step processes one irradiation event: decay across the gap, then the
// production interval, or a skip entry when the location has no flux data.
func (e *Engine) step(ctx context.Context, st stepState, ev Irradiation, in Input, timeline []TimelineEntry) (stepState, []TimelineEntry, error) {
	// A skipped event must leave the inventory and reference time exactly
	// as they were: its gap is decayed once, together with the next
	// applied event's, and the reported activity stays tied to refTime.
	fc, ok := in.FluxConfigs[ev.Location]
	if !ok {
		e.log.Warn(ctx, "no flux configuration; skipping irradiation",
			logger.String("location", ev.Location),
			logger.String("start", ev.Start.Format(time.RFC3339)),
			logger.Float64("power_kw", ev.PowerKW),
		)
		st.skipped = append(st.skipped, SkippedIrradiation{
			Location:        ev.Location,
			Start:           ev.Start,
			End:             ev.End,
			PowerKW:         ev.PowerKW,
			DurationSeconds: ev.Seconds(),
			Reason:          "no flux configuration for location",
		})
		return st, timeline, nil
	}

	// Decay across the gap since the previous applied irradiation end.
	if st.hasRef {
		gap := ev.Start.Sub(st.refTime).Seconds()
		if gap > 0 {
			decayed, err := e.decayer.Decay(st.inventory, gap)
			if err != nil {
				return st, timeline, err
			}
			st.inventory = decayed
			if in.RecordTimeline {
				entry := e.timelineEntry(len(timeline), StepDecay, ev.Start, st.inventory,
					fmt.Sprintf("decay for %s", time.Duration(gap*float64(time.Second)).Round(time.Minute)))
				entry.DecaySeconds = gap
				timeline = e.recordStep(timeline, entry)
			}
		}
	}

	spectrum := fc.SpectrumAt(ev.PowerKW)
	st.inventory = e.irradiate(ctx, st.inventory, spectrum, ev.Seconds())
	st.refTime = ev.End
	st.hasRef = true
	st.applied++

	if in.RecordTimeline {
		entry := e.timelineEntry(len(timeline), StepIrradiation, ev.End, st.inventory,
			fmt.Sprintf("irradiation at %s, %.0f kW", ev.Location, ev.PowerKW))
		entry.FluenceNCm2 = spectrum.Total() * ev.Seconds()
		timeline = e.recordStep(timeline, entry)
	}
	return st, timeline, nil
}

// irradiate applies the saturation/production formula over one interval:
// N(t) = N0·e^(−λΔt) + (R/λ)(1−e^(−λΔt)), R = N_target·σ_eff·φ_total.
// Production and in-situ decay of the product happen in the same term;
// radioactive nuclides that are not being produced decay plainly. Targets
// are not depleted (linear-production approximation).
func (e *Engine) irradiate(ctx context.Context, inv nuclide.Inventory, s xsection.Spectrum, dt float64) nuclide.Inventory {
	totalFlux := s.Total()
	production := make(map[nuclide.Nuclide]float64)
	if totalFlux > 0 && dt > 0 {
		for target, atoms := range inv {
			if atoms <= 0 {
				continue
			}
			product := nucdata.CaptureProduct(target)
			if product == "" {
				continue
			}
			sigma, resolution, err := e.resolver.Effective(target, nucdata.NGamma, s)
			if err != nil {
				metrics.RecordExcludedNuclide()
				e.log.Debug(ctx, "cross section unresolved; target excluded from production",
					logger.String("target", target.String()),
					logger.Error(err),
				)
				continue
			}
			e.log.Debug(ctx, "resolved effective cross section",
				logger.String("target", target.String()),
				logger.String("source", resolution.Source),
				logger.Float64("sigma_eff_barns", sigma),
			)
			production[product] += atoms * sigma * barnToCm2 * totalFlux
		}
	}

	next := nuclide.NewInventory()
	seen := make(map[nuclide.Nuclide]bool, len(inv))
	apply := func(n nuclide.Nuclide, atoms float64) {
		lam := e.decayer.DecayConstant(n)
		rate := production[n]
		switch {
		case rate > 0 && lam > 0:
			next.Add(n, atoms*math.Exp(-lam*dt)+rate/lam*(1-math.Exp(-lam*dt)))
		case rate > 0:
			next.Add(n, atoms+rate*dt)
		case lam > 0:
			next.Add(n, atoms*math.Exp(-lam*dt))
		default:
			next.Add(n, atoms)
		}
	}
	for n, atoms := range inv {
		apply(n, atoms)
		seen[n] = true
	}
	for n := range production {
		if !seen[n] {
			apply(n, 0)
		}
	}
	return next
}

// fillActivities converts the raw inventory into the reported activity
// map, dose rate and coalesced totals.
func (e *Engine) fillActivities(res *Result) {
	activities, total := e.decayer.Activities(res.Inventory)
	res.TotalActivityBq = total
	res.DoseRate1Ft, res.DoseNotes = e.estimator.Estimate(activities)

	res.Isotopes = make(map[nuclide.Nuclide]IsotopeActivity, len(activities))
	for n, bq := range activities {
		frac := 0.0
		if total > 0 {
			frac = bq / total
		}
		if frac < e.minActivityFraction {
			res.CoalescedActivityBq += bq
			res.CoalescedIsotopes++
			continue
		}
		d, _ := e.provider.DecayChain(n)
		res.Isotopes[n] = IsotopeActivity{
			ActivityBq:      bq,
			ActivityCi:      bq / doserate.CurieToBq,
			Atoms:           res.Inventory[n],
			Fraction:        frac,
			HalfLifeSeconds: d.HalfLifeSeconds,
			HalfLifeDisplay: FormatHalfLife(d.HalfLifeSeconds),
		}
	}
}

// ActivityAt answers an arbitrary-date query against a finished result by
// decaying the raw inventory forward from the reference time. A target
// earlier than the reference time is rejected: decaying backward is
// undefined for this model.
func (e *Engine) ActivityAt(res *Result, target time.Time) (*Snapshot, error) {
	if !res.Success {
		return nil, fmt.Errorf("%w: unsuccessful result", ErrNoInventory)
	}
	if target.Before(res.ReferenceTime) {
		return nil, fmt.Errorf("%w: target %s, reference %s", ErrTargetBeforeReference,
			target.Format(time.RFC3339), res.ReferenceTime.Format(time.RFC3339))
	}

	inv := res.Inventory
	if len(inv) == 0 {
		// Cached results may carry activities only; rebuild atoms via N = A/λ.
		inv = nuclide.NewInventory()
		for n, iso := range res.Isotopes {
			if lam := e.decayer.DecayConstant(n); lam > 0 {
				inv.Add(n, iso.ActivityBq/lam)
			}
		}
		if len(inv) == 0 {
			return nil, ErrNoInventory
		}
	}

	dt := target.Sub(res.ReferenceTime).Seconds()
	decayed, err := e.decayer.Decay(inv, dt)
	if err != nil {
		return nil, err
	}

	activities, total := e.decayer.Activities(decayed)
	dose, notes := e.estimator.Estimate(activities)
	snap := &Snapshot{
		At:              target,
		DecaySeconds:    dt,
		TotalActivityBq: total,
		DoseRate1Ft:     dose,
		DoseNotes:       notes,
		Isotopes:        make(map[nuclide.Nuclide]IsotopeActivity, len(activities)),
	}
	for n, bq := range activities {
		frac := 0.0
		if total > 0 {
			frac = bq / total
		}
		if frac < e.minActivityFraction {
			continue
		}
		d, _ := e.provider.DecayChain(n)
		snap.Isotopes[n] = IsotopeActivity{
			ActivityBq:      bq,
			ActivityCi:      bq / doserate.CurieToBq,
			Atoms:           decayed[n],
			Fraction:        frac,
			HalfLifeSeconds: d.HalfLifeSeconds,
			HalfLifeDisplay: FormatHalfLife(d.HalfLifeSeconds),
		}
	}
	return snap, nil
}

// recordStep appends entry unless the timeline is at the cap.
func (e *Engine) recordStep(timeline []TimelineEntry, entry TimelineEntry) []TimelineEntry {
	if len(timeline) >= e.maxTimelineSteps {
		return timeline
	}
	return append(timeline, entry)
}

// timelineEntry builds a snapshot entry for the current inventory.
func (e *Engine) timelineEntry(step int, kind StepKind, at time.Time, inv nuclide.Inventory, description string) TimelineEntry {
	activities, total := e.decayer.Activities(inv)
	dose, _ := e.estimator.Estimate(activities)
	return TimelineEntry{
		Step:             step,
		Kind:             kind,
		At:               at,
		Description:      description,
		Inventory:        inv.Clone(),
		TotalActivityBq:  total,
		DominantIsotopes: dominantIsotopes(activities, total),
		DoseRate1Ft:      dose,
	}
}
