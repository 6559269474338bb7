package inference_test

import (
	"testing"
	"time"

	"github.com/okian/floorsight/internal/domain/inference"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a model with the default per-event duration", t, func() {
		m := inference.New()

		Convey("Then the duration defaults to five minutes", func() {
			So(m.EventDuration(), ShouldEqual, 5*time.Minute)
		})

		Convey("When converting a histogram", func() {
			d := m.Durations(inference.Histogram{Working: 10, Idle: 5, Absent: 2})

			Convey("Then each observation contributes five minutes", func() {
				So(d.ActiveMinutes, ShouldEqual, 50.0)
				So(d.IdleMinutes, ShouldEqual, 25.0)
				So(d.AbsentMinutes, ShouldEqual, 10.0)
			})
		})

		Convey("When converting an empty histogram", func() {
			d := m.Durations(inference.Histogram{})

			Convey("Then all durations are zero", func() {
				So(d.ActiveMinutes, ShouldEqual, 0.0)
				So(d.IdleMinutes, ShouldEqual, 0.0)
				So(d.AbsentMinutes, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given a model with a custom per-event duration", t, func() {
		m := inference.New(inference.WithEventDuration(10 * time.Minute))

		Convey("Then durations scale with the configured value", func() {
			d := m.Durations(inference.Histogram{Working: 3})
			So(d.ActiveMinutes, ShouldEqual, 30.0)
		})
	})

	Convey("Given a non-positive duration option", t, func() {
		m := inference.New(inference.WithEventDuration(0))

		Convey("Then the default is kept", func() {
			So(m.EventDuration(), ShouldEqual, inference.DefaultEventDuration)
		})
	})
}
