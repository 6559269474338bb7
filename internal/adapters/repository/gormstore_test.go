package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/floorsight/internal/adapters/repository"
	"github.com/okian/floorsight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	s, err := repository.New(filepath.Join(t.TempDir(), "floorsight_test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormStoreEvents(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 15, 10, 15, 0, 0, time.UTC)

	Convey("Given a store with a registered worker and station", t, func() {
		s := newStore(t)
		So(s.CreateWorker(ctx, &model.Worker{WorkerID: "W1", Name: "John Martinez"}), ShouldBeNil)
		So(s.CreateStation(ctx, &model.Workstation{StationID: "S1", Name: "Assembly Line A", StationType: "Assembly"}), ShouldBeNil)

		Convey("When inserting an event", func() {
			e := model.Event{
				Timestamp:     ts,
				WorkerID:      "W1",
				WorkstationID: "S1",
				Type:          model.EventWorking,
				Confidence:    0.93,
				ReceivedAt:    time.Now().UTC(),
			}
			So(s.InsertEvent(ctx, &e), ShouldBeNil)

			Convey("Then it is assigned an id and can be read back", func() {
				So(e.ID, ShouldBeGreaterThan, 0)

				events, err := s.ListEvents(ctx, model.EventFilter{WorkerID: "W1"})
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].Type, ShouldEqual, model.EventWorking)
			})

			Convey("And inserting the same dedup key again yields ErrDuplicateEvent", func() {
				dup := model.Event{
					Timestamp:     ts,
					WorkerID:      "W1",
					WorkstationID: "S1",
					Type:          model.EventWorking,
					Confidence:    0.42, // confidence is not part of the key
					ReceivedAt:    time.Now().UTC(),
				}
				err := s.InsertEvent(ctx, &dup)
				So(errors.Is(err, repository.ErrDuplicateEvent), ShouldBeTrue)

				n, err := s.CountEvents(ctx, model.EventFilter{})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})

			Convey("And a different event type at the same instant is a distinct event", func() {
				other := model.Event{
					Timestamp:     ts,
					WorkerID:      "W1",
					WorkstationID: "S1",
					Type:          model.EventIdle,
					ReceivedAt:    time.Now().UTC(),
				}
				So(s.InsertEvent(ctx, &other), ShouldBeNil)
			})
		})

		Convey("When filtering events", func() {
			insert := func(offset time.Duration, typ model.EventType) {
				e := model.Event{
					Timestamp:     ts.Add(offset),
					WorkerID:      "W1",
					WorkstationID: "S1",
					Type:          typ,
					ReceivedAt:    time.Now().UTC(),
				}
				So(s.InsertEvent(ctx, &e), ShouldBeNil)
			}
			insert(0, model.EventWorking)
			insert(5*time.Minute, model.EventIdle)
			insert(10*time.Minute, model.EventWorking)
			insert(15*time.Minute, model.EventProductCount)

			Convey("Then type filters apply", func() {
				n, err := s.CountEvents(ctx, model.EventFilter{Type: model.EventWorking})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})

			Convey("Then time bounds are inclusive on both ends", func() {
				start := ts.Add(5 * time.Minute)
				end := ts.Add(10 * time.Minute)
				events, err := s.ListEvents(ctx, model.EventFilter{Start: &start, End: &end})
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
			})

			Convey("Then listing orders newest first and honors limit/offset", func() {
				events, err := s.ListEvents(ctx, model.EventFilter{Limit: 2})
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 2)
				So(events[0].Timestamp.After(events[1].Timestamp), ShouldBeTrue)

				rest, err := s.ListEvents(ctx, model.EventFilter{Limit: 2, Offset: 2})
				So(err, ShouldBeNil)
				So(len(rest), ShouldEqual, 2)
			})

			Convey("Then DeleteAllEvents clears events but keeps reference data", func() {
				n, err := s.DeleteAllEvents(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 4)

				workers, err := s.ListWorkers(ctx)
				So(err, ShouldBeNil)
				So(len(workers), ShouldEqual, 1)
			})
		})
	})
}

func TestGormStoreReferenceData(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := newStore(t)

		Convey("When registering workers", func() {
			So(s.CreateWorker(ctx, &model.Worker{WorkerID: "W1", Name: "John Martinez"}), ShouldBeNil)
			So(s.CreateWorker(ctx, &model.Worker{WorkerID: "W2", Name: "Sarah Chen"}), ShouldBeNil)

			Convey("Then duplicate registration is rejected", func() {
				err := s.CreateWorker(ctx, &model.Worker{WorkerID: "W1", Name: "Someone Else"})
				So(errors.Is(err, repository.ErrWorkerExists), ShouldBeTrue)
			})

			Convey("Then lookups and id sets reflect the registrations", func() {
				w, err := s.GetWorker(ctx, "W2")
				So(err, ShouldBeNil)
				So(w.Name, ShouldEqual, "Sarah Chen")

				ok, err := s.WorkerExists(ctx, "W1")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)

				ok, err = s.WorkerExists(ctx, "W9")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)

				ids, err := s.WorkerIDs(ctx)
				So(err, ShouldBeNil)
				So(len(ids), ShouldEqual, 2)
				_, present := ids["W1"]
				So(present, ShouldBeTrue)
			})

			Convey("Then deletion removes the registration", func() {
				So(s.DeleteWorker(ctx, "W2"), ShouldBeNil)

				_, err := s.GetWorker(ctx, "W2")
				So(errors.Is(err, repository.ErrWorkerNotFound), ShouldBeTrue)

				err = s.DeleteWorker(ctx, "W2")
				So(errors.Is(err, repository.ErrWorkerNotFound), ShouldBeTrue)
			})
		})

		Convey("When registering workstations", func() {
			So(s.CreateStation(ctx, &model.Workstation{StationID: "S1", Name: "Assembly Line A", StationType: "Assembly"}), ShouldBeNil)

			Convey("Then duplicate registration is rejected", func() {
				err := s.CreateStation(ctx, &model.Workstation{StationID: "S1", Name: "Other"})
				So(errors.Is(err, repository.ErrStationExists), ShouldBeTrue)
			})

			Convey("Then a missing station yields ErrStationNotFound", func() {
				_, err := s.GetStation(ctx, "S9")
				So(errors.Is(err, repository.ErrStationNotFound), ShouldBeTrue)
			})

			Convey("Then counts reflect the registrations", func() {
				n, err := s.CountStations(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}
