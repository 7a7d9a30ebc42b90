package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/contextbench/leaderboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.AgentPrefix, convey.ShouldEqual, "cmini-swe-agent + ")
			convey.So(cfg.DefaultSystem, convey.ShouldEqual, "backbone")
			convey.So(cfg.DefaultMetric, convey.ShouldEqual, "pass_at_1")
			convey.So(cfg.DatasetPath, convey.ShouldBeEmpty)
			convey.So(cfg.ReadTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.WriteTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid field values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":     func(c *config.Config) { c.Addr = "" },
			"log format":     func(c *config.Config) { c.LogFormat = "xml" },
			"system":         func(c *config.Config) { c.DefaultSystem = "robot" },
			"metric":         func(c *config.Config) { c.DefaultMetric = "cost" },
			"read timeout":   func(c *config.Config) { c.ReadTimeoutMS = 0 },
			"shutdown limit": func(c *config.Config) { c.ShutdownTimeoutMS = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
