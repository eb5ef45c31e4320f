package config_test

import (
	"testing"
	"time"

	"github.com/okian/lessongen/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.AllowedOrigins, convey.ShouldEqual, "*")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.EnableDocs, convey.ShouldBeTrue)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Origins(t *testing.T) {
	convey.Convey("Given an origin list with padding and blanks", t, func() {
		cfg := config.New()
		cfg.AllowedOrigins = " https://a.example , ,https://b.example,"

		convey.Convey("Then Origins should return the trimmed entries", func() {
			convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})
	})

	convey.Convey("Given an empty origin list", t, func() {
		cfg := config.New()
		cfg.AllowedOrigins = ""

		convey.Convey("Then Origins should be empty", func() {
			convey.So(cfg.Origins(), convey.ShouldBeEmpty)
		})
	})
}
