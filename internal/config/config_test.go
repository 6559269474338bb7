package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/floorsight/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("FLOORSIGHT_CONFIG", "")

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DBPath, ShouldEqual, "floorsight.db")
				So(cfg.EventDurationMinutes, ShouldEqual, 5)
				So(cfg.DuplicateWindowSeconds, ShouldEqual, 10)
				So(cfg.ShiftDurationHours, ShouldEqual, 8)
				So(cfg.MaxBatchSize, ShouldEqual, 1000)
				So(cfg.SeedOnStart, ShouldBeTrue)
			})
		})

		Convey("When overriding via environment variables", func() {
			t.Setenv("FLOORSIGHT_ADDR", ":8123")
			t.Setenv("FLOORSIGHT_EVENT_DURATION_MINUTES", "10")
			t.Setenv("FLOORSIGHT_SEED_ON_START", "false")

			cfg, err := config.Load(context.Background())

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8123")
				So(cfg.EventDurationMinutes, ShouldEqual, 10)
				So(cfg.SeedOnStart, ShouldBeFalse)
			})
		})

		Convey("When an override is invalid", func() {
			t.Setenv("FLOORSIGHT_EVENT_DURATION_MINUTES", "0")

			_, err := config.Load(context.Background())

			Convey("Then loading fails with the invalid-config kind", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
