package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/bateman/internal/app"
	"github.com/okian/bateman/internal/domain/activation"
	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/pkg/logger"
)

var goldComp = nuclide.Composition{{Element: "Au", Isotope: "Au-197", Fraction: 1}}

func startService(t *testing.T) (*service.Service, context.Context) {
	t.Helper()
	ctx := context.Background()
	svc := service.New(service.WithLogger(logger.Nop()))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc, ctx
}

func rabbitTube() activation.FluxConfiguration {
	return activation.FluxConfiguration{
		Location:         "rabbit-tube",
		ReferencePowerKW: 100,
		ThermalFlux:      2.5e12,
	}
}

func hourAt(start time.Time) activation.Irradiation {
	return activation.Irradiation{
		Location: "rabbit-tube",
		Start:    start,
		End:      start.Add(time.Hour),
		PowerKW:  100,
	}
}

func TestRegisterSample(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc, ctx := startService(t)

		convey.Convey("When registering a sample without an ID", func() {
			smp, err := svc.RegisterSample(ctx, "", "gold foil", goldComp, 2.5)

			convey.Convey("Then an ID is assigned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(smp.ID, convey.ShouldNotBeEmpty)
				convey.So(smp.Name, convey.ShouldEqual, "gold foil")
			})
		})

		convey.Convey("When registering the same ID twice", func() {
			_, err := svc.RegisterSample(ctx, "foil-1", "a", goldComp, 1)
			convey.So(err, convey.ShouldBeNil)
			_, err = svc.RegisterSample(ctx, "foil-1", "b", goldComp, 1)

			convey.So(errors.Is(err, service.ErrSampleExists), convey.ShouldBeTrue)
		})

		convey.Convey("When the composition is invalid", func() {
			_, err := svc.RegisterSample(ctx, "", "bad", nuclide.Composition{}, 1)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When looking up an unknown sample", func() {
			_, err := svc.Sample(ctx, "nope")
			convey.So(errors.Is(err, service.ErrSampleNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When listing samples", func() {
			_, err := svc.RegisterSample(ctx, "b", "second", goldComp, 1)
			convey.So(err, convey.ShouldBeNil)
			_, err = svc.RegisterSample(ctx, "a", "first", goldComp, 1)
			convey.So(err, convey.ShouldBeNil)

			list := svc.Samples(ctx)

			convey.Convey("Then they come back ordered by ID", func() {
				convey.So(list, convey.ShouldHaveLength, 2)
				convey.So(list[0].ID, convey.ShouldEqual, "a")
				convey.So(list[1].ID, convey.ShouldEqual, "b")
			})
		})
	})
}

func TestRecordIrradiation(t *testing.T) {
	convey.Convey("Given a registered sample", t, func() {
		svc, ctx := startService(t)
		smp, err := svc.RegisterSample(ctx, "foil-1", "gold foil", goldComp, 2.5)
		convey.So(err, convey.ShouldBeNil)

		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		convey.Convey("When recording a valid irradiation", func() {
			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

			got, err := svc.Sample(ctx, smp.ID)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got.Events, convey.ShouldHaveLength, 1)
		})

		convey.Convey("When the interval is inverted", func() {
			bad := hourAt(start)
			bad.Start, bad.End = bad.End, bad.Start
			err := svc.RecordIrradiation(ctx, smp.ID, bad)

			convey.So(errors.Is(err, service.ErrInvalidInterval), convey.ShouldBeTrue)
		})

		convey.Convey("When a new event overlaps an existing one", func() {
			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

			overlapping := hourAt(start.Add(30 * time.Minute))
			err := svc.RecordIrradiation(ctx, smp.ID, overlapping)

			convey.So(errors.Is(err, service.ErrOverlappingEvent), convey.ShouldBeTrue)
		})

		convey.Convey("When an event touches the previous end exactly", func() {
			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

			adjacent := hourAt(start.Add(time.Hour))
			convey.So(svc.RecordIrradiation(ctx, smp.ID, adjacent), convey.ShouldBeNil)
		})

		convey.Convey("When events arrive out of order", func() {
			later := hourAt(start.Add(48 * time.Hour))
			convey.So(svc.RecordIrradiation(ctx, smp.ID, later), convey.ShouldBeNil)
			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

			got, err := svc.Sample(ctx, smp.ID)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the log is kept chronological", func() {
				convey.So(got.Events[0].Start.Before(got.Events[1].Start), convey.ShouldBeTrue)
			})
		})
	})
}

func TestUpdateComposition(t *testing.T) {
	convey.Convey("Given a registered sample", t, func() {
		svc, ctx := startService(t)
		smp, err := svc.RegisterSample(ctx, "foil-1", "gold foil", goldComp, 2.5)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.SetFluxConfiguration(ctx, rabbitTube()), convey.ShouldBeNil)

		alloy := nuclide.Composition{
			{Element: "Au", Fraction: 0.5},
			{Element: "Cu", Fraction: 0.5},
		}

		convey.Convey("When updating before any irradiation", func() {
			convey.So(svc.UpdateComposition(ctx, smp.ID, alloy, 3.0), convey.ShouldBeNil)

			got, err := svc.Sample(ctx, smp.ID)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got.Composition, convey.ShouldHaveLength, 2)
			convey.So(got.MassGrams, convey.ShouldEqual, 3.0)
		})

		convey.Convey("When updating after an irradiation", func() {
			start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

			err := svc.UpdateComposition(ctx, smp.ID, alloy, 3.0)

			convey.Convey("Then the composition is sealed", func() {
				convey.So(errors.Is(err, service.ErrCompositionSealed), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceCompute(t *testing.T) {
	convey.Convey("Given a sample with one irradiation", t, func() {
		svc, ctx := startService(t)
		convey.So(svc.SetFluxConfiguration(ctx, rabbitTube()), convey.ShouldBeNil)
		smp, err := svc.RegisterSample(ctx, "foil-1", "gold foil", goldComp, 2.5)
		convey.So(err, convey.ShouldBeNil)
		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

		convey.Convey("When computing", func() {
			res, err := svc.Compute(ctx, smp.ID)

			convey.Convey("Then the result succeeds and carries a hash", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Success, convey.ShouldBeTrue)
				convey.So(res.Hash, convey.ShouldNotBeEmpty)
				convey.So(res.TotalActivityBq, convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And recomputing returns the cached result", func() {
				again, err := svc.Compute(ctx, smp.ID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(again, convey.ShouldEqual, res)
			})
		})

		convey.Convey("When recording another event after computing", func() {
			res, err := svc.Compute(ctx, smp.ID)
			convey.So(err, convey.ShouldBeNil)

			convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start.Add(24*time.Hour))), convey.ShouldBeNil)
			fresh, err := svc.Compute(ctx, smp.ID)

			convey.Convey("Then the key changes and the result is recomputed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(fresh.Hash, convey.ShouldNotEqual, res.Hash)
				convey.So(fresh.TotalActivityBq, convey.ShouldBeGreaterThan, res.TotalActivityBq)
			})
		})

		convey.Convey("When querying activity at a later date", func() {
			snap, err := svc.ActivityAt(ctx, smp.ID, start.Add(time.Hour+72*time.Hour))

			convey.Convey("Then the snapshot reflects the decay", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(snap.DecaySeconds, convey.ShouldAlmostEqual, 259200, 1)
			})
		})

		convey.Convey("When fetching the timeline", func() {
			entries, err := svc.Timeline(ctx, smp.ID)

			convey.Convey("Then per-step snapshots are present", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(entries, convey.ShouldNotBeEmpty)
				convey.So(entries[0].Kind, convey.ShouldEqual, activation.StepInitial)
			})
		})

		convey.Convey("When computing an unknown sample", func() {
			_, err := svc.Compute(ctx, "nope")
			convey.So(errors.Is(err, service.ErrSampleNotFound), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a sample irradiated at a not-yet-configured location", t, func() {
		svc, ctx := startService(t)
		smp, err := svc.RegisterSample(ctx, "foil-2", "gold foil", goldComp, 2.5)
		convey.So(err, convey.ShouldBeNil)
		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

		res, err := svc.Compute(ctx, smp.ID)
		convey.So(err, convey.ShouldBeNil)
		convey.So(res.Success, convey.ShouldBeFalse)

		convey.Convey("When the flux configuration is registered afterwards", func() {
			convey.So(svc.SetFluxConfiguration(ctx, rabbitTube()), convey.ShouldBeNil)
			fresh, err := svc.Compute(ctx, smp.ID)

			convey.Convey("Then the stale failure is not served from the cache", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(fresh.Success, convey.ShouldBeTrue)
				convey.So(fresh.TotalActivityBq, convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	convey.Convey("Given a populated service", t, func() {
		svc, ctx := startService(t)
		convey.So(svc.SetFluxConfiguration(ctx, rabbitTube()), convey.ShouldBeNil)
		smp, err := svc.RegisterSample(ctx, "foil-1", "gold foil", goldComp, 2.5)
		convey.So(err, convey.ShouldBeNil)
		start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		convey.So(svc.RecordIrradiation(ctx, smp.ID, hourAt(start)), convey.ShouldBeNil)

		convey.Convey("When reading stats", func() {
			stats := svc.GetStats()

			convey.So(stats["samples"], convey.ShouldEqual, 1)
			convey.So(stats["irradiation_events"], convey.ShouldEqual, 1)
			convey.So(stats["flux_locations"], convey.ShouldEqual, 1)
			convey.So(stats["algorithm_version"], convey.ShouldEqual, activation.AlgorithmVersion)
		})
	})
}

func TestFluxConfigurationValidation(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc, ctx := startService(t)

		convey.Convey("When the location is missing", func() {
			fc := rabbitTube()
			fc.Location = ""
			convey.So(svc.SetFluxConfiguration(ctx, fc), convey.ShouldNotBeNil)
		})

		convey.Convey("When the reference power is non-positive", func() {
			fc := rabbitTube()
			fc.ReferencePowerKW = 0
			convey.So(svc.SetFluxConfiguration(ctx, fc), convey.ShouldNotBeNil)
		})

		convey.Convey("When replacing an existing location", func() {
			convey.So(svc.SetFluxConfiguration(ctx, rabbitTube()), convey.ShouldBeNil)
			updated := rabbitTube()
			updated.ThermalFlux = 3e12
			convey.So(svc.SetFluxConfiguration(ctx, updated), convey.ShouldBeNil)

			got := svc.FluxConfigurations(ctx)
			convey.So(got["rabbit-tube"].ThermalFlux, convey.ShouldEqual, 3e12)
		})
	})
}
