// Command activation-report runs the activation calculation for the
// samples in a YAML library and prints per-isotope activities plus an
// ASCII decay chart, without starting the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/guptarohit/asciigraph"

	app "github.com/okian/bateman/internal/app"
	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/doserate"
	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/internal/library"
	"github.com/okian/bateman/pkg/logger"
)

const (
	defaultChartPoints = 60
	defaultChartHeight = 10
	defaultChartWidth  = 80
	defaultRunTimeout  = 2 * time.Minute
)

func main() {
	var (
		samplesPath = flag.String("samples", "", "Path to the YAML sample library (required)")
		fluxPath    = flag.String("flux", "", "Path to the YAML flux configuration library (required)")
		atFlag      = flag.String("at", "", "Report activity at this RFC3339 time (default: now)")
		points      = flag.Int("points", defaultChartPoints, "Number of points in the decay chart")
		chartSpan   = flag.Duration("span", 0, "Chart time span after end of irradiation (default: until -at)")
	)
	flag.Parse()

	if *samplesPath == "" || *fluxPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	at := time.Now().UTC()
	if *atFlag != "" {
		parsed, err := time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			os.Stderr.WriteString("invalid -at: " + err.Error() + "\n")
			os.Exit(2)
		}
		at = parsed.UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if err := run(ctx, *samplesPath, *fluxPath, at, *points, *chartSpan); err != nil {
		os.Stderr.WriteString("report failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, samplesPath, fluxPath string, at time.Time, points int, span time.Duration) error {
	svc := app.New(app.WithLogger(logger.Nop()))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	configs, err := library.LoadFluxConfigurations(ctx, fluxPath)
	if err != nil {
		return err
	}
	for _, fc := range configs {
		if err := svc.SetFluxConfiguration(ctx, fc); err != nil {
			return err
		}
	}

	defs, err := library.LoadSamples(ctx, samplesPath)
	if err != nil {
		return err
	}
	for _, def := range defs {
		smp, err := svc.RegisterSample(ctx, def.ID, def.Name, def.Composition, def.MassGrams)
		if err != nil {
			return err
		}
		evs, err := def.Events()
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if err := svc.RecordIrradiation(ctx, smp.ID, ev); err != nil {
				return err
			}
		}
		if err := report(ctx, svc, smp, at, points, span); err != nil {
			return err
		}
	}
	return nil
}

func report(ctx context.Context, svc *app.Service, smp *app.Sample, at time.Time, points int, span time.Duration) error {
	fmt.Printf("=== %s (%s, %.4g g) ===\n", smp.Name, smp.ID, smp.MassGrams)

	res, err := svc.Compute(ctx, smp.ID)
	if err != nil {
		return err
	}
	if !res.Success {
		fmt.Printf("  computation unsuccessful: %s\n\n", res.Error)
		return nil
	}

	printResult(res)

	snap, err := svc.ActivityAt(ctx, smp.ID, at)
	if err != nil {
		return err
	}
	fmt.Printf("\nAt %s (%.3g s of decay):\n", at.Format(time.RFC3339), snap.DecaySeconds)
	fmt.Printf("  total activity: %s   dose rate at 1 ft: %.3g mrem/hr\n",
		formatActivity(snap.TotalActivityBq), snap.DoseRate1Ft)

	return chart(ctx, svc, smp.ID, res.ReferenceTime, at, points, span)
}

func printResult(res *activation.Result) {
	fmt.Printf("end of irradiation %s, algorithm v%s\n", res.ReferenceTime.Format(time.RFC3339), res.AlgorithmVersion)

	names := make([]nuclide.Nuclide, 0, len(res.Isotopes))
	for n := range res.Isotopes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return res.Isotopes[names[i]].ActivityBq > res.Isotopes[names[j]].ActivityBq
	})

	fmt.Printf("%-10s %14s %12s %8s %14s\n", "isotope", "activity", "half-life", "frac", "atoms")
	for _, name := range names {
		iso := res.Isotopes[name]
		fmt.Printf("%-10s %14s %12s %7.2f%% %14.4g\n",
			name, formatActivity(iso.ActivityBq), iso.HalfLifeDisplay, iso.Fraction*100, iso.Atoms)
	}
	if res.CoalescedIsotopes > 0 {
		fmt.Printf("%-10s %14s %12s\n", "(other)", formatActivity(res.CoalescedActivityBq),
			fmt.Sprintf("%d isotopes", res.CoalescedIsotopes))
	}
	fmt.Printf("total: %s   dose rate at 1 ft: %.3g mrem/hr\n",
		formatActivity(res.TotalActivityBq), res.DoseRate1Ft)

	for _, sk := range res.Skipped {
		fmt.Printf("warning: skipped irradiation at %s (%s): %s\n",
			sk.Location, sk.Start.Format(time.RFC3339), sk.Reason)
	}
}

// chart plots total activity from end of irradiation out to the query
// time (or the -span duration when given).
func chart(ctx context.Context, svc *app.Service, sampleID string, from, to time.Time, points int, span time.Duration) error {
	if span > 0 {
		to = from.Add(span)
	}
	if points < 2 || !to.After(from) {
		return nil
	}

	step := to.Sub(from) / time.Duration(points-1)
	data := make([]float64, 0, points)
	for i := 0; i < points; i++ {
		snap, err := svc.ActivityAt(ctx, sampleID, from.Add(time.Duration(i)*step))
		if err != nil {
			return err
		}
		data = append(data, snap.TotalActivityBq/doserate.CurieToBq*1000) // mCi
	}

	caption := fmt.Sprintf("total activity (mCi) over %s", to.Sub(from).Round(time.Minute))
	graph := asciigraph.Plot(data,
		asciigraph.Height(defaultChartHeight),
		asciigraph.Width(defaultChartWidth),
		asciigraph.Caption(caption),
	)
	fmt.Println()
	fmt.Println(graph)
	fmt.Println()
	return nil
}

func formatActivity(bq float64) string {
	ci := bq / doserate.CurieToBq
	switch {
	case ci >= 1:
		return fmt.Sprintf("%.4g Ci", ci)
	case ci >= 1e-3:
		return fmt.Sprintf("%.4g mCi", ci*1e3)
	case ci >= 1e-6:
		return fmt.Sprintf("%.4g uCi", ci*1e6)
	default:
		return fmt.Sprintf("%.4g Bq", bq)
	}
}
