package feed

import (
	"math/rand"
	"time"
)

// observation is the wire form of one candidate event.
type observation struct {
	Timestamp     time.Time `json:"timestamp"`
	WorkerID      string    `json:"worker_id"`
	WorkstationID string    `json:"workstation_id"`
	EventType     string    `json:"event_type"`
	Confidence    float64   `json:"confidence"`
	Count         int       `json:"count,omitempty"`
}

// worker and workstation mirror the registry wire schema; only the
// public ids matter here.
type worker struct {
	WorkerID string `json:"worker_id"`
}

type workstation struct {
	StationID string `json:"station_id"`
}

// generateObservations produces n candidates spread over the last few
// hours, spaced so the dedup key rarely collides within one run. A
// slice of working observations gets a paired product_count.
func generateObservations(rng *rand.Rand, workers []worker, stations []workstation, n int) []observation {
	out := make([]observation, 0, n)
	base := time.Now().UTC().Add(-6 * time.Hour).Truncate(time.Second)

	for i := 0; len(out) < n; i++ {
		w := workers[rng.Intn(len(workers))]
		s := stations[rng.Intn(len(stations))]
		at := base.Add(time.Duration(i) * time.Second)

		o := observation{
			Timestamp:     at,
			WorkerID:      w.WorkerID,
			WorkstationID: s.StationID,
			Confidence:    0.80 + rng.Float64()*0.19,
		}
		switch r := rng.Float64(); {
		case r < 0.70:
			o.EventType = "working"
		case r < 0.85:
			o.EventType = "idle"
		default:
			o.EventType = "absent"
		}
		out = append(out, o)

		if o.EventType == "working" && rng.Float64() < 0.25 && len(out) < n {
			out = append(out, observation{
				Timestamp:     at.Add(500 * time.Millisecond),
				WorkerID:      w.WorkerID,
				WorkstationID: s.StationID,
				EventType:     "product_count",
				Confidence:    0.90 + rng.Float64()*0.09,
				Count:         1 + rng.Intn(5),
			})
		}
	}
	return out
}

// chunk splits observations into batches of at most size items.
func chunk(obs []observation, size int) [][]observation {
	var batches [][]observation
	for len(obs) > 0 {
		n := size
		if n > len(obs) {
			n = len(obs)
		}
		batches = append(batches, obs[:n])
		obs = obs[n:]
	}
	return batches
}
