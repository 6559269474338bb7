package sampledata_test

import (
	"context"
	"path/filepath"
	"testing"

	repository "github.com/okian/floorsight/internal/adapters/repository"
	"github.com/okian/floorsight/internal/domain/model"
	"github.com/okian/floorsight/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	s, err := repository.New(filepath.Join(t.TempDir(), "sampledata_test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSeedReferenceData(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := newStore(t)

		Convey("When seeding reference data", func() {
			workers, stations, err := sampledata.SeedReferenceData(ctx, s)

			Convey("Then the sample workers and stations are created", func() {
				So(err, ShouldBeNil)
				So(workers, ShouldEqual, 6)
				So(stations, ShouldEqual, 6)
			})

			Convey("And seeding again is a no-op", func() {
				again, againStations, err := sampledata.SeedReferenceData(ctx, s)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, 0)
				So(againStations, ShouldEqual, 0)

				n, err := s.CountWorkers(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 6)
			})
		})
	})
}

func TestGenerateEvents(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store without reference data", t, func() {
		s := newStore(t)

		Convey("Then generation refuses to run", func() {
			_, err := sampledata.GenerateEvents(ctx, s, sampledata.GenerateOptions{NumDays: 1, EventsPerDay: 10})
			So(err, ShouldEqual, sampledata.ErrNoReferenceData)
		})
	})

	Convey("Given a seeded store", t, func() {
		s := newStore(t)
		_, _, err := sampledata.SeedReferenceData(ctx, s)
		So(err, ShouldBeNil)

		Convey("When generating one day of events", func() {
			created, err := sampledata.GenerateEvents(ctx, s, sampledata.GenerateOptions{
				NumDays:      1,
				EventsPerDay: 60,
				Seed:         42,
			})

			Convey("Then events exist and reference only seeded entities", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeGreaterThan, 0)

				n, err := s.CountEvents(ctx, model.EventFilter{})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, int64(created))

				events, err := s.ListEvents(ctx, model.EventFilter{Limit: 50})
				So(err, ShouldBeNil)
				ids, err := s.WorkerIDs(ctx)
				So(err, ShouldBeNil)
				for _, e := range events {
					_, known := ids[e.WorkerID]
					So(known, ShouldBeTrue)
					So(e.Type.Valid(), ShouldBeTrue)
					if e.Type != model.EventProductCount {
						So(e.Count, ShouldEqual, 0)
					}
				}
			})

			Convey("And ClearExisting drops the previous stream", func() {
				before, err := s.CountEvents(ctx, model.EventFilter{})
				So(err, ShouldBeNil)
				So(before, ShouldBeGreaterThan, 0)

				_, err = sampledata.GenerateEvents(ctx, s, sampledata.GenerateOptions{
					NumDays:       1,
					EventsPerDay:  30,
					ClearExisting: true,
					Seed:          7,
				})
				So(err, ShouldBeNil)

				after, err := s.CountEvents(ctx, model.EventFilter{})
				So(err, ShouldBeNil)
				So(after, ShouldBeGreaterThan, 0)
			})
		})
	})
}
