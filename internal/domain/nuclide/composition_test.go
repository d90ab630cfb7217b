package nuclide_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/bateman/internal/domain/nucdata"
	"github.com/okian/bateman/internal/domain/nuclide"
)

func TestCompositionValidate(t *testing.T) {
	convey.Convey("Given sample compositions", t, func() {
		convey.Convey("When the composition is empty", func() {
			err := nuclide.Composition{}.Validate()
			convey.So(errors.Is(err, nuclide.ErrEmptyComposition), convey.ShouldBeTrue)
		})

		convey.Convey("When fractions do not sum to one", func() {
			c := nuclide.Composition{
				{Element: "Cu", Fraction: 0.5},
				{Element: "Au", Fraction: 0.4},
			}
			err := c.Validate()
			convey.So(errors.Is(err, nuclide.ErrFractionSum), convey.ShouldBeTrue)
		})

		convey.Convey("When a fraction is out of range", func() {
			c := nuclide.Composition{{Element: "Au", Fraction: 1.5}}
			convey.So(c.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When an isotope does not belong to its element", func() {
			c := nuclide.Composition{{Element: "Au", Isotope: "Co-60", Fraction: 1}}
			convey.So(c.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the composition is a valid alloy", func() {
			c := nuclide.Composition{
				{Element: "Cu", Fraction: 0.7},
				{Element: "Ni", Fraction: 0.3},
			}
			convey.So(c.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the sum is within tolerance of one", func() {
			c := nuclide.Composition{
				{Element: "Cu", Fraction: 0.5},
				{Element: "Ni", Fraction: 0.5000000005},
			}
			convey.So(c.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestCompositionAtoms(t *testing.T) {
	convey.Convey("Given the built-in nuclear data library", t, func() {
		src := nucdata.NewLibrary()

		convey.Convey("When expanding a pinned isotope", func() {
			c := nuclide.Composition{{Element: "Au", Isotope: "Au-197", Fraction: 1}}
			inv, err := c.Atoms(2.5, src)

			convey.Convey("Then N = m·N_A/M", func() {
				convey.So(err, convey.ShouldBeNil)
				// 2.5 g · 6.022e23 / 196.9666 g/mol
				convey.So(inv["Au-197"], convey.ShouldAlmostEqual, 7.6434e21, 1e18)
			})
		})

		convey.Convey("When expanding a natural element", func() {
			c := nuclide.Composition{{Element: "Cu", Fraction: 1}}
			inv, err := c.Atoms(1.0, src)

			convey.Convey("Then isotopes should split by atom fraction", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(inv["Cu-63"], convey.ShouldBeGreaterThan, 0)
				convey.So(inv["Cu-65"], convey.ShouldBeGreaterThan, 0)
				ratio := inv["Cu-63"] / inv["Cu-65"]
				convey.So(ratio, convey.ShouldAlmostEqual, 0.6915/0.3085, 1e-9)
			})
		})

		convey.Convey("When atom counts scale with mass", func() {
			c := nuclide.Composition{{Element: "Au", Isotope: "Au-197", Fraction: 1}}
			one, err := c.Atoms(1.0, src)
			convey.So(err, convey.ShouldBeNil)
			ten, err := c.Atoms(10.0, src)
			convey.So(err, convey.ShouldBeNil)

			convey.So(ten["Au-197"]/one["Au-197"], convey.ShouldAlmostEqual, 10, 1e-9)
		})

		convey.Convey("When the element has no abundance data", func() {
			c := nuclide.Composition{{Element: "Xx", Fraction: 1}}
			_, err := c.Atoms(1.0, src)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the mass is non-positive", func() {
			c := nuclide.Composition{{Element: "Au", Fraction: 1}}
			_, err := c.Atoms(0, src)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When an unknown isotope is pinned", func() {
			c := nuclide.Composition{{Element: "U", Isotope: "U-238", Fraction: 1}}
			inv, err := c.Atoms(1.0, src)

			convey.Convey("Then the mass number stands in for the molar mass", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(inv["U-238"], convey.ShouldAlmostEqual, nuclide.Avogadro/238, 1e15)
			})
		})
	})
}
