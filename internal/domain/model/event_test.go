package model_test

import (
	"testing"

	"github.com/okian/floorsight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEventType(t *testing.T) {
	Convey("Given the event type enumeration", t, func() {
		Convey("When checking validity", func() {
			Convey("Then the four known types are valid", func() {
				So(model.EventWorking.Valid(), ShouldBeTrue)
				So(model.EventIdle.Valid(), ShouldBeTrue)
				So(model.EventAbsent.Valid(), ShouldBeTrue)
				So(model.EventProductCount.Valid(), ShouldBeTrue)
			})

			Convey("Then unknown values are invalid", func() {
				So(model.EventType("").Valid(), ShouldBeFalse)
				So(model.EventType("sleeping").Valid(), ShouldBeFalse)
				So(model.EventType("WORKING").Valid(), ShouldBeFalse)
			})
		})

		Convey("When checking time-bearing types", func() {
			Convey("Then state observations carry duration", func() {
				So(model.EventWorking.TimeBearing(), ShouldBeTrue)
				So(model.EventIdle.TimeBearing(), ShouldBeTrue)
				So(model.EventAbsent.TimeBearing(), ShouldBeTrue)
			})

			Convey("Then product counts do not", func() {
				So(model.EventProductCount.TimeBearing(), ShouldBeFalse)
			})
		})
	})
}
