package sampledata

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	repository "github.com/okian/floorsight/internal/adapters/repository"
	"github.com/okian/floorsight/internal/domain/model"
)

// Shift and probability constants for the synthetic stream. The shape
// mimics a real floor: an 8-hour shift, more working during core hours,
// production correlated with working observations.
const (
	shiftStartHour = 8
	shiftEndHour   = 16
	coreStartHour  = 9
	coreEndHour    = 15

	coreWorkingProb  = 0.75
	offWorkingProb   = 0.60
	idleProb         = 0.15
	primaryStayProb  = 0.80
	productionProb   = 0.30
	maxUnitsPerEvent = 5

	timestampJitterSeconds = 30
)

// GenerateOptions tunes the synthetic stream.
type GenerateOptions struct {
	// NumDays of history to generate, ending now.
	NumDays int
	// EventsPerDay is the approximate total observation count per day
	// across all workers.
	EventsPerDay int
	// ClearExisting drops all stored events first.
	ClearExisting bool
	// Seed fixes the random source; zero means time-seeded.
	Seed int64
}

// GenerateEvents writes a synthetic observation stream for every
// registered worker. Duplicate keys produced by timestamp jitter are
// skipped, mirroring real ingestion.
func GenerateEvents(ctx context.Context, store repository.Store, opts GenerateOptions) (int, error) {
	if opts.NumDays < 1 {
		opts.NumDays = 7
	}
	if opts.EventsPerDay < 1 {
		opts.EventsPerDay = 100
	}

	if opts.ClearExisting {
		if _, err := store.DeleteAllEvents(ctx); err != nil {
			return 0, fmt.Errorf("clear events: %w", err)
		}
	}

	workers, err := store.ListWorkers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list workers: %w", err)
	}
	stations, err := store.ListStations(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stations: %w", err)
	}
	if len(workers) == 0 || len(stations) == 0 {
		return 0, ErrNoReferenceData
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	created := 0
	now := time.Now().UTC()
	day := now.AddDate(0, 0, -opts.NumDays)

	intervalMinutes := float64(shiftEndHour-shiftStartHour) * 60 /
		(float64(opts.EventsPerDay) / float64(len(workers)))
	if intervalMinutes < 1 {
		intervalMinutes = 1
	}

	for ; day.Before(now); day = day.AddDate(0, 0, 1) {
		shiftStart := time.Date(day.Year(), day.Month(), day.Day(), shiftStartHour, 0, 0, 0, time.UTC)
		shiftEnd := time.Date(day.Year(), day.Month(), day.Day(), shiftEndHour, 0, 0, 0, time.UTC)

		for at := shiftStart; at.Before(shiftEnd); at = at.Add(time.Duration(intervalMinutes * float64(time.Minute))) {
			for i, worker := range workers {
				// Workers tend to stay at their primary station.
				station := stations[i%len(stations)].StationID
				if rng.Float64() >= primaryStayProb {
					station = stations[rng.Intn(len(stations))].StationID
				}

				typ, confidence := drawObservation(rng, at.Hour())
				jitter := time.Duration(rng.Intn(2*timestampJitterSeconds+1)-timestampJitterSeconds) * time.Second

				e := model.Event{
					Timestamp:     at.Add(jitter),
					WorkerID:      worker.WorkerID,
					WorkstationID: station,
					Type:          typ,
					Confidence:    confidence,
					ReceivedAt:    time.Now().UTC(),
				}
				switch err := store.InsertEvent(ctx, &e); {
				case err == nil:
					created++
				case errors.Is(err, repository.ErrDuplicateEvent):
					continue
				default:
					return created, fmt.Errorf("insert event: %w", err)
				}

				if typ == model.EventWorking && rng.Float64() < productionProb {
					prod := model.Event{
						Timestamp:     e.Timestamp.Add(time.Duration(60+rng.Intn(121)) * time.Second),
						WorkerID:      worker.WorkerID,
						WorkstationID: station,
						Type:          model.EventProductCount,
						Confidence:    0.90 + rng.Float64()*0.09,
						Count:         1 + rng.Intn(maxUnitsPerEvent),
						ReceivedAt:    time.Now().UTC(),
					}
					switch err := store.InsertEvent(ctx, &prod); {
					case err == nil:
						created++
					case errors.Is(err, repository.ErrDuplicateEvent):
					default:
						return created, fmt.Errorf("insert event: %w", err)
					}
				}
			}
		}
	}
	return created, nil
}

// drawObservation picks an observation type weighted by time of day,
// plus a plausible detector confidence for it.
func drawObservation(rng *rand.Rand, hour int) (model.EventType, float64) {
	workingProb := offWorkingProb
	if hour >= coreStartHour && hour <= coreEndHour {
		workingProb = coreWorkingProb
	}

	r := rng.Float64()
	switch {
	case r < workingProb:
		return model.EventWorking, 0.85 + rng.Float64()*0.14
	case r < workingProb+idleProb:
		return model.EventIdle, 0.75 + rng.Float64()*0.20
	default:
		return model.EventAbsent, 0.80 + rng.Float64()*0.18
	}
}
