package xsection_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
	"github.com/okian/bateman/internal/domain/xsection"
)

// emptyProvider forces lookups past the multigroup source.
type emptyProvider struct{ nucdata.Provider }

func (emptyProvider) CrossSection(nuclide.Nuclide, nucdata.Reaction) (nucdata.GroupSet, bool) {
	return nucdata.GroupSet{}, false
}

// fixedSource serves one nuclide with a fixed group set.
type fixedSource struct {
	name   string
	target nuclide.Nuclide
	groups nucdata.GroupSet
}

func (s *fixedSource) Name() string { return s.name }

func (s *fixedSource) Lookup(n nuclide.Nuclide, _ nucdata.Reaction) (nucdata.GroupSet, bool) {
	if n != s.target {
		return nucdata.GroupSet{}, false
	}
	return s.groups, true
}

func TestSpectrum(t *testing.T) {
	convey.Convey("Given flux spectra", t, func() {
		convey.Convey("When the intermediate group is absent", func() {
			s := xsection.Spectrum{Thermal: 2e12, Fast: 5e11}

			convey.So(s.Groups(), convey.ShouldEqual, 2)
			convey.So(s.Total(), convey.ShouldEqual, 2.5e12)
		})

		convey.Convey("When the intermediate group is a measured zero", func() {
			s := xsection.Spectrum{Thermal: 2e12, Fast: 5e11, HasIntermediate: true}

			convey.Convey("Then the group count differs but the total does not", func() {
				convey.So(s.Groups(), convey.ShouldEqual, 3)
				convey.So(s.Total(), convey.ShouldEqual, 2.5e12)
			})
		})

		convey.Convey("When scaling by a power ratio", func() {
			s := xsection.Spectrum{Thermal: 2e12, Fast: 4e11, Intermediate: 1e11, HasIntermediate: true}
			half := s.Scale(0.5)

			convey.So(half.Thermal, convey.ShouldEqual, 1e12)
			convey.So(half.Fast, convey.ShouldEqual, 2e11)
			convey.So(half.Intermediate, convey.ShouldEqual, 5e10)
			convey.So(half.HasIntermediate, convey.ShouldBeTrue)
		})
	})
}

func TestResolverEffective(t *testing.T) {
	convey.Convey("Given the default source chain", t, func() {
		resolver := xsection.NewResolver(nucdata.NewLibrary())

		convey.Convey("When collapsing over a pure thermal spectrum", func() {
			s := xsection.Spectrum{Thermal: 2.5e12}
			eff, res, err := resolver.Effective("Au-197", nucdata.NGamma, s)

			convey.Convey("Then the effective value is the thermal value", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Source, convey.ShouldEqual, "multigroup")
				convey.So(eff, convey.ShouldAlmostEqual, 98.65, 1e-9)
			})
		})

		convey.Convey("When collapsing over a mixed two-group spectrum", func() {
			// 80% thermal, 20% fast.
			s := xsection.Spectrum{Thermal: 2e12, Fast: 5e11}
			eff, _, err := resolver.Effective("Au-197", nucdata.NGamma, s)

			convey.Convey("Then groups are weighted by flux share", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(eff, convey.ShouldAlmostEqual, 98.65*0.8+0.084*0.2, 1e-9)
			})
		})

		convey.Convey("When the intermediate group is present", func() {
			s := xsection.Spectrum{Thermal: 2e12, Fast: 4e11, Intermediate: 1e11, HasIntermediate: true}
			eff, _, err := resolver.Effective("Au-197", nucdata.NGamma, s)

			convey.Convey("Then the resonance integral contributes", func() {
				convey.So(err, convey.ShouldBeNil)
				want := 98.65*(2e12/2.5e12) + 127.7*(1e11/2.5e12) + 0.084*(4e11/2.5e12)
				convey.So(eff, convey.ShouldAlmostEqual, want, 1e-9)
			})
		})

		convey.Convey("When an intermediate measured as zero renormalizes nothing", func() {
			absent := xsection.Spectrum{Thermal: 2e12, Fast: 5e11}
			zero := xsection.Spectrum{Thermal: 2e12, Fast: 5e11, HasIntermediate: true}

			effAbsent, _, err := resolver.Effective("Au-197", nucdata.NGamma, absent)
			convey.So(err, convey.ShouldBeNil)
			effZero, _, err := resolver.Effective("Au-197", nucdata.NGamma, zero)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the collapsed values coincide", func() {
				convey.So(effZero, convey.ShouldAlmostEqual, effAbsent, 1e-12)
			})
		})

		convey.Convey("When no source covers the nuclide", func() {
			s := xsection.Spectrum{Thermal: 1e12}
			_, _, err := resolver.Effective("U-238", nucdata.NGamma, s)

			convey.Convey("Then resolution fails with ErrUnresolved", func() {
				convey.So(errors.Is(err, xsection.ErrUnresolved), convey.ShouldBeTrue)
			})
		})
	})
}

func TestResolverFallthrough(t *testing.T) {
	convey.Convey("Given a provider with no data", t, func() {
		resolver := xsection.NewResolver(emptyProvider{})
		s := xsection.Spectrum{Thermal: 1e12}

		convey.Convey("When the activation file covers the nuclide", func() {
			eff, res, err := resolver.Effective("Au-197", nucdata.NGamma, s)

			convey.Convey("Then the second source serves it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Source, convey.ShouldEqual, "activation-file")
				convey.So(eff, convey.ShouldAlmostEqual, 98.66, 1e-9)
			})
		})

		convey.Convey("When only the foil table covers the nuclide", func() {
			eff, res, err := resolver.Effective("Al-27", nucdata.NGamma, s)

			convey.Convey("Then the last source serves it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Source, convey.ShouldEqual, "fallback-table")
				convey.So(eff, convey.ShouldAlmostEqual, 0.231, 1e-9)
			})
		})
	})

	convey.Convey("Given a custom source chain", t, func() {
		custom := &fixedSource{
			name:   "custom",
			target: "Xx-1",
			groups: nucdata.GroupSet{Thermal: 7},
		}
		resolver := xsection.NewResolver(emptyProvider{}, xsection.WithSources(custom))

		convey.Convey("When resolving through it", func() {
			eff, res, err := resolver.Effective("Xx-1", nucdata.NGamma, xsection.Spectrum{Thermal: 1})

			convey.Convey("Then only the custom source is consulted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Source, convey.ShouldEqual, "custom")
				convey.So(eff, convey.ShouldAlmostEqual, 7.0, 1e-12)
			})

			convey.Convey("And uncovered nuclides no longer fall back", func() {
				_, _, err := resolver.Effective("Au-197", nucdata.NGamma, xsection.Spectrum{Thermal: 1})
				convey.So(errors.Is(err, xsection.ErrUnresolved), convey.ShouldBeTrue)
			})
		})
	})
}
