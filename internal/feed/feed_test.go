package feed_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/okian/floorsight/internal/feed"
	"github.com/okian/floorsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeService struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	stored int
	dupes  int
}

type wireEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	WorkerID      string    `json:"worker_id"`
	WorkstationID string    `json:"workstation_id"`
	EventType     string    `json:"event_type"`
}

func (s *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/v1/workers", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"worker_id": "W1"}, {"worker_id": "W2"},
		})
	})
	mux.HandleFunc("/api/v1/workstations", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"station_id": "S1"}, {"station_id": "S2"},
		})
	})
	mux.HandleFunc("/api/v1/events/batch", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Events []wireEvent `json:"events"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		stored, dupes := 0, 0
		for _, e := range req.Events {
			key := fmt.Sprintf("%d|%s|%s|%s", e.Timestamp.UnixNano(), e.WorkerID, e.WorkstationID, e.EventType)
			if _, dup := s.seen[key]; dup {
				dupes++
				continue
			}
			s.seen[key] = struct{}{}
			stored++
		}
		s.stored += stored
		s.dupes += dupes
		s.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_received":      len(req.Events),
			"successfully_stored": stored,
			"duplicates_skipped":  dupes,
			"errors":              []string{},
		})
	})
	return mux
}

func TestFeedRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service accepting batches", t, func() {
		svc := &fakeService{seen: map[string]struct{}{}}
		ts := httptest.NewServer(svc.handler())
		t.Cleanup(ts.Close)

		Convey("When running a feed", func() {
			err := feed.Run(ctx, &feed.Config{
				BaseURL:   ts.URL,
				NumEvents: 120,
				BatchSize: 25,
				Workers:   4,
				Timeout:   5 * time.Second,
				Seed:      99,
			})

			Convey("Then every generated observation is stored once", func() {
				So(err, ShouldBeNil)
				So(svc.stored, ShouldEqual, 120)
				So(svc.dupes, ShouldEqual, 0)
			})
		})

		Convey("When running with resend enabled", func() {
			err := feed.Run(ctx, &feed.Config{
				BaseURL:   ts.URL,
				NumEvents: 60,
				BatchSize: 20,
				Workers:   2,
				Resend:    true,
				Timeout:   5 * time.Second,
				Seed:      7,
			})

			Convey("Then the second pass is absorbed as duplicates", func() {
				So(err, ShouldBeNil)
				So(svc.stored, ShouldEqual, 60)
				So(svc.dupes, ShouldEqual, 60)
			})
		})

		Convey("When the configuration is invalid", func() {
			err := feed.Run(ctx, &feed.Config{BaseURL: ts.URL})
			So(err, ShouldNotBeNil)
		})
	})
}
