package logger_test

import (
	"context"
	"testing"

	"github.com/okian/floorsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When getting the global instance", func() {
			l := logger.Get()

			Convey("Then it logs without panicking", func() {
				So(func() {
					l.Info(context.Background(), "hello",
						logger.String("k", "v"),
						logger.Int("n", 42),
					)
				}, ShouldNotPanic)
			})

			Convey("Then named loggers derive from it", func() {
				So(logger.Get().Named("ingest"), ShouldNotBeNil)
			})
		})

		Convey("When setting levels by string", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)

			Convey("Then unknown levels are rejected", func() {
				So(logger.SetLevelString("loud"), ShouldNotBeNil)
			})
		})
	})
}
