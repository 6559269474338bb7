package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/floorsight/internal/domain/ingest"
	"github.com/okian/floorsight/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var errDup = errors.New("duplicate event")

// fakeDirectory holds fixed sets of registered identifiers.
type fakeDirectory struct {
	workers  map[string]struct{}
	stations map[string]struct{}
}

func (d *fakeDirectory) WorkerExists(_ context.Context, id string) (bool, error) {
	_, ok := d.workers[id]
	return ok, nil
}

func (d *fakeDirectory) StationExists(_ context.Context, id string) (bool, error) {
	_, ok := d.stations[id]
	return ok, nil
}

func (d *fakeDirectory) WorkerIDs(context.Context) (map[string]struct{}, error) {
	return d.workers, nil
}

func (d *fakeDirectory) StationIDs(context.Context) (map[string]struct{}, error) {
	return d.stations, nil
}

// fakeSink stores events in memory and enforces the dedup key.
type fakeSink struct {
	events []model.Event
	keys   map[string]struct{}
}

func (s *fakeSink) InsertEvent(_ context.Context, e *model.Event) error {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	key := fmt.Sprintf("%d|%s|%s|%s", e.Timestamp.UnixNano(), e.WorkerID, e.WorkstationID, e.Type)
	if _, seen := s.keys[key]; seen {
		return errDup
	}
	s.keys[key] = struct{}{}
	e.ID = uint(len(s.events) + 1)
	s.events = append(s.events, *e)
	return nil
}

func newGate(sink *fakeSink, opts ...ingest.Option) *ingest.Gate {
	dir := &fakeDirectory{
		workers:  map[string]struct{}{"W1": {}, "W2": {}},
		stations: map[string]struct{}{"S1": {}, "S2": {}},
	}
	isDup := func(err error) bool { return errors.Is(err, errDup) }
	return ingest.New(dir, sink, isDup, opts...)
}

func candidate(ts time.Time, typ model.EventType) ingest.Candidate {
	return ingest.Candidate{
		Timestamp:     ts,
		WorkerID:      "W1",
		WorkstationID: "S1",
		Type:          typ,
		Confidence:    0.9,
	}
}

func TestGateIngest(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 15, 10, 15, 0, 0, time.UTC)
	arrival := time.Date(2026, 1, 15, 10, 16, 0, 0, time.UTC)

	Convey("Given a gate over a fresh sink", t, func() {
		sink := &fakeSink{}
		g := newGate(sink, ingest.WithClock(func() time.Time { return arrival }))

		Convey("When ingesting a valid observation", func() {
			e, err := g.Ingest(ctx, candidate(ts, model.EventWorking))

			Convey("Then it is stored with the gate-assigned arrival clock", func() {
				So(err, ShouldBeNil)
				So(e.ID, ShouldEqual, 1)
				So(e.Timestamp.Equal(ts), ShouldBeTrue)
				So(e.ReceivedAt.Equal(arrival), ShouldBeTrue)
			})

			Convey("And resubmitting the same key surfaces the duplicate", func() {
				_, err := g.Ingest(ctx, candidate(ts, model.EventWorking))
				So(errors.Is(err, errDup), ShouldBeTrue)
				So(len(sink.events), ShouldEqual, 1)
			})
		})

		Convey("When ingesting a state observation with a non-zero count", func() {
			c := candidate(ts, model.EventIdle)
			c.Count = 7
			e, err := g.Ingest(ctx, c)

			Convey("Then count is normalized to zero at storage time", func() {
				So(err, ShouldBeNil)
				So(e.Count, ShouldEqual, 0)
			})
		})

		Convey("When ingesting a product_count observation", func() {
			c := candidate(ts, model.EventProductCount)
			c.Count = 4
			e, err := g.Ingest(ctx, c)

			Convey("Then the count is preserved", func() {
				So(err, ShouldBeNil)
				So(e.Count, ShouldEqual, 4)
			})
		})

		Convey("When the event type is unknown", func() {
			_, err := g.Ingest(ctx, candidate(ts, model.EventType("napping")))

			Convey("Then it fails validation, not reference resolution", func() {
				So(ingest.IsValidation(err), ShouldBeTrue)
				So(ingest.IsReferenceNotFound(err), ShouldBeFalse)
			})
		})

		Convey("When the timestamp is missing", func() {
			c := candidate(time.Time{}, model.EventWorking)
			_, err := g.Ingest(ctx, c)
			So(ingest.IsValidation(err), ShouldBeTrue)
		})

		Convey("When confidence is out of range", func() {
			c := candidate(ts, model.EventWorking)
			c.Confidence = 1.5
			_, err := g.Ingest(ctx, c)
			So(ingest.IsValidation(err), ShouldBeTrue)
		})

		Convey("When the count is negative", func() {
			c := candidate(ts, model.EventProductCount)
			c.Count = -1
			_, err := g.Ingest(ctx, c)
			So(ingest.IsValidation(err), ShouldBeTrue)
		})

		Convey("When the worker is not registered", func() {
			c := candidate(ts, model.EventWorking)
			c.WorkerID = "W9"
			_, err := g.Ingest(ctx, c)

			Convey("Then the failure is a reference error", func() {
				So(ingest.IsReferenceNotFound(err), ShouldBeTrue)
				So(ingest.IsValidation(err), ShouldBeFalse)
			})
		})

		Convey("When the workstation is not registered", func() {
			c := candidate(ts, model.EventWorking)
			c.WorkstationID = "S9"
			_, err := g.Ingest(ctx, c)
			So(ingest.IsReferenceNotFound(err), ShouldBeTrue)
		})
	})
}

func TestGateIngestBatch(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	Convey("Given a gate over a fresh sink", t, func() {
		sink := &fakeSink{}
		g := newGate(sink)

		Convey("When submitting a batch with valid, malformed, and unknown-reference items", func() {
			batch := []ingest.Candidate{
				candidate(ts, model.EventWorking),
				candidate(ts.Add(5*time.Minute), model.EventIdle),
				candidate(ts, model.EventType("bogus")), // malformed
			}
			badRef := candidate(ts.Add(10 * time.Minute), model.EventWorking)
			badRef.WorkerID = "W9"
			batch = append(batch, badRef)

			res, err := g.IngestBatch(ctx, batch)

			Convey("Then valid items are stored and bad items become diagnostics", func() {
				So(err, ShouldBeNil)
				So(res.TotalReceived, ShouldEqual, 4)
				So(res.SuccessfullyStored, ShouldEqual, 2)
				So(res.DuplicatesSkipped, ShouldEqual, 0)
				So(len(res.Errors), ShouldEqual, 2)
				So(res.Errors[1], ShouldContainSubstring, "W9")
			})
		})

		Convey("When a batch item has no timestamp", func() {
			batch := []ingest.Candidate{
				candidate(ts, model.EventWorking),
				candidate(time.Time{}, model.EventWorking),
			}
			res, err := g.IngestBatch(ctx, batch)

			Convey("Then it becomes a diagnostic and never reaches storage", func() {
				So(err, ShouldBeNil)
				So(res.SuccessfullyStored, ShouldEqual, 1)
				So(len(res.Errors), ShouldEqual, 1)
				So(res.Errors[0], ShouldContainSubstring, "timestamp")
				So(len(sink.events), ShouldEqual, 1)
				So(sink.events[0].Timestamp.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When a batch is re-sent wholesale", func() {
			batch := []ingest.Candidate{
				candidate(ts, model.EventWorking),
				candidate(ts.Add(5*time.Minute), model.EventWorking),
			}
			first, err := g.IngestBatch(ctx, batch)
			So(err, ShouldBeNil)
			So(first.SuccessfullyStored, ShouldEqual, 2)

			second, err := g.IngestBatch(ctx, batch)

			Convey("Then every item counts as a duplicate, not an error", func() {
				So(err, ShouldBeNil)
				So(second.SuccessfullyStored, ShouldEqual, 0)
				So(second.DuplicatesSkipped, ShouldEqual, 2)
				So(len(second.Errors), ShouldEqual, 0)
				So(len(sink.events), ShouldEqual, 2)
			})
		})

		Convey("When a batch duplicates one of its own items", func() {
			batch := []ingest.Candidate{
				candidate(ts, model.EventWorking),
				candidate(ts, model.EventWorking),
			}
			res, err := g.IngestBatch(ctx, batch)

			Convey("Then exactly one row is stored", func() {
				So(err, ShouldBeNil)
				So(res.SuccessfullyStored, ShouldEqual, 1)
				So(res.DuplicatesSkipped, ShouldEqual, 1)
				So(len(sink.events), ShouldEqual, 1)
			})
		})

		Convey("When more items fail than the diagnostic cap", func() {
			g := newGate(sink, ingest.WithMaxDiagnostics(3))
			var batch []ingest.Candidate
			for i := 0; i < 8; i++ {
				c := candidate(ts.Add(time.Duration(i)*time.Minute), model.EventWorking)
				c.WorkerID = fmt.Sprintf("X%d", i)
				batch = append(batch, c)
			}
			batch = append(batch, candidate(ts, model.EventWorking))

			res, err := g.IngestBatch(ctx, batch)

			Convey("Then diagnostics are truncated but every item was still attempted", func() {
				So(err, ShouldBeNil)
				So(len(res.Errors), ShouldEqual, 3)
				So(res.SuccessfullyStored, ShouldEqual, 1)
			})
		})
	})
}
