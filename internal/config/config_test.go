package config_test

import (
	"testing"

	"github.com/okian/bateman/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.AlgorithmVersion, convey.ShouldEqual, "3")
			convey.So(cfg.DoseRateK, convey.ShouldEqual, 570)
			convey.So(cfg.DoseRateFallbackPerCurie, convey.ShouldEqual, 500)
			convey.So(cfg.MinActivityFraction, convey.ShouldEqual, 0.001)
			convey.So(cfg.CacheSize, convey.ShouldEqual, 10_000)
		})
	})
}
