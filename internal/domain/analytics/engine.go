// Package analytics derives productivity metrics from stored
// observations.
//
// All projections share one algorithm: fetch the relevant events,
// classify by type, run the time-inference model, derive rates. Metrics
// are recomputed from the store on every call; there is no cache and no
// incremental state, so every read reflects the latest committed events.
// Missing data never errors: "no events yet" degrades to zero-valued,
// well-formed output.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/floorsight/internal/domain/inference"
	"github.com/okian/floorsight/internal/domain/model"
)

const (
	percent        = 100.0
	minutesPerHour = 60.0
)

// EventSource reads stored observations.
type EventSource interface {
	ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)
}

// Directory reads registered workers and workstations.
type Directory interface {
	GetWorker(ctx context.Context, workerID string) (model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	GetStation(ctx context.Context, stationID string) (model.Workstation, error)
	ListStations(ctx context.Context) ([]model.Workstation, error)
}

// Engine computes on-demand metric projections. It never mutates the
// event store.
type Engine struct {
	events   EventSource
	dir      Directory
	notFound func(error) bool
	model    inference.Model
	now      func() time.Time
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithModel sets the time-inference model.
func WithModel(m inference.Model) Option {
	return func(e *Engine) {
		e.model = m
	}
}

// WithClock overrides the dashboard timestamp source. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Engine. notFound classifies directory errors as
// unknown-identifier lookups, which yield the sentinel-named zero
// record instead of an error.
func New(events EventSource, dir Directory, notFound func(error) bool, opts ...Option) *Engine {
	e := &Engine{
		events:   events,
		dir:      dir,
		notFound: notFound,
		model:    inference.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// round2 rounds to two decimals at the output boundary; everything
// upstream runs in full precision.
func round2(v float64) float64 {
	return math.Round(v*percent) / percent
}

// tally is the shared per-entity classification pass.
type tally struct {
	hist  inference.Histogram
	units int
	total int
}

func tallyEvents(events []model.Event) tally {
	var t tally
	t.total = len(events)
	for _, e := range events {
		switch e.Type {
		case model.EventWorking:
			t.hist.Working++
		case model.EventIdle:
			t.hist.Idle++
		case model.EventAbsent:
			t.hist.Absent++
		case model.EventProductCount:
			t.units += e.Count
		}
	}
	return t
}

func (e *Engine) windowEvents(ctx context.Context, workerID, stationID string, w Window) ([]model.Event, error) {
	return e.events.ListEvents(ctx, model.EventFilter{
		WorkerID:      workerID,
		WorkstationID: stationID,
		Start:         w.Start,
		End:           w.End,
	})
}

func (e *Engine) workerMetrics(ctx context.Context, worker model.Worker, w Window) (WorkerMetrics, error) {
	events, err := e.windowEvents(ctx, worker.WorkerID, "", w)
	if err != nil {
		return WorkerMetrics{}, fmt.Errorf("worker %s events: %w", worker.WorkerID, err)
	}

	t := tallyEvents(events)
	d := e.model.Durations(t.hist)

	presentMinutes := d.ActiveMinutes + d.IdleMinutes
	utilization := 0.0
	if presentMinutes > 0 {
		utilization = d.ActiveMinutes / presentMinutes * percent
	}
	unitsPerHour := 0.0
	if d.ActiveMinutes > 0 {
		unitsPerHour = float64(t.units) / (d.ActiveMinutes / minutesPerHour)
	}

	return WorkerMetrics{
		WorkerID:               worker.WorkerID,
		WorkerName:             worker.Name,
		TotalActiveTimeMinutes: round2(d.ActiveMinutes),
		TotalIdleTimeMinutes:   round2(d.IdleMinutes),
		TotalAbsentTimeMinutes: round2(d.AbsentMinutes),
		UtilizationPercentage:  round2(utilization),
		TotalUnitsProduced:     t.units,
		UnitsPerHour:           round2(unitsPerHour),
		EventCount:             t.total,
	}, nil
}

func (e *Engine) stationMetrics(ctx context.Context, station model.Workstation, w Window) (WorkstationMetrics, error) {
	events, err := e.windowEvents(ctx, "", station.StationID, w)
	if err != nil {
		return WorkstationMetrics{}, fmt.Errorf("station %s events: %w", station.StationID, err)
	}

	t := tallyEvents(events)
	d := e.model.Durations(t.hist)

	occupancyMinutes := d.ActiveMinutes + d.IdleMinutes
	utilization := 0.0
	if occupancyMinutes > 0 {
		utilization = d.ActiveMinutes / occupancyMinutes * percent
	}
	throughput := 0.0
	if occupancyMinutes > 0 {
		throughput = float64(t.units) / (occupancyMinutes / minutesPerHour)
	}

	return WorkstationMetrics{
		StationID:             station.StationID,
		StationName:           station.Name,
		StationType:           station.StationType,
		OccupancyTimeMinutes:  round2(occupancyMinutes),
		WorkingTimeMinutes:    round2(d.ActiveMinutes),
		IdleTimeMinutes:       round2(d.IdleMinutes),
		UtilizationPercentage: round2(utilization),
		TotalUnitsProduced:    t.units,
		ThroughputRate:        round2(throughput),
		EventCount:            t.total,
	}, nil
}

// WorkerMetrics computes metrics for every registered worker.
func (e *Engine) WorkerMetrics(ctx context.Context, w Window) ([]WorkerMetrics, error) {
	workers, err := e.dir.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	out := make([]WorkerMetrics, 0, len(workers))
	for _, worker := range workers {
		m, err := e.workerMetrics(ctx, worker, w)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// WorkerMetricsByID computes metrics for one worker. An unknown id
// yields a zeroed record with the sentinel name, not an error.
func (e *Engine) WorkerMetricsByID(ctx context.Context, workerID string, w Window) (WorkerMetrics, error) {
	worker, err := e.dir.GetWorker(ctx, workerID)
	if err != nil {
		if e.notFound(err) {
			return WorkerMetrics{WorkerID: workerID, WorkerName: UnknownEntityName}, nil
		}
		return WorkerMetrics{}, fmt.Errorf("get worker: %w", err)
	}
	return e.workerMetrics(ctx, worker, w)
}

// StationMetrics computes metrics for every registered workstation.
func (e *Engine) StationMetrics(ctx context.Context, w Window) ([]WorkstationMetrics, error) {
	stations, err := e.dir.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	out := make([]WorkstationMetrics, 0, len(stations))
	for _, station := range stations {
		m, err := e.stationMetrics(ctx, station, w)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// StationMetricsByID computes metrics for one workstation. An unknown
// id yields a zeroed record with the sentinel name, not an error.
func (e *Engine) StationMetricsByID(ctx context.Context, stationID string, w Window) (WorkstationMetrics, error) {
	station, err := e.dir.GetStation(ctx, stationID)
	if err != nil {
		if e.notFound(err) {
			return WorkstationMetrics{StationID: stationID, StationName: UnknownEntityName}, nil
		}
		return WorkstationMetrics{}, fmt.Errorf("get station: %w", err)
	}
	return e.stationMetrics(ctx, station, w)
}

// FactoryMetrics aggregates over all events in the window. Totals come
// from the factory-wide event set; the average utilizations are means
// over active entities only.
func (e *Engine) FactoryMetrics(ctx context.Context, w Window) (FactoryMetrics, error) {
	events, err := e.windowEvents(ctx, "", "", w)
	if err != nil {
		return FactoryMetrics{}, fmt.Errorf("factory events: %w", err)
	}

	t := tallyEvents(events)
	d := e.model.Durations(t.hist)

	rate := 0.0
	if d.ActiveMinutes > 0 {
		rate = float64(t.units) / (d.ActiveMinutes / minutesPerHour)
	}

	workerMetrics, err := e.WorkerMetrics(ctx, w)
	if err != nil {
		return FactoryMetrics{}, err
	}
	stationMetrics, err := e.StationMetrics(ctx, w)
	if err != nil {
		return FactoryMetrics{}, err
	}

	activeWorkers := 0
	workerUtilSum := 0.0
	for _, m := range workerMetrics {
		if m.EventCount > 0 {
			activeWorkers++
			workerUtilSum += m.UtilizationPercentage
		}
	}
	activeStations := 0
	stationUtilSum := 0.0
	for _, m := range stationMetrics {
		if m.EventCount > 0 {
			activeStations++
			stationUtilSum += m.UtilizationPercentage
		}
	}

	avgWorkerUtil := 0.0
	if activeWorkers > 0 {
		avgWorkerUtil = workerUtilSum / float64(activeWorkers)
	}
	avgStationUtil := 0.0
	if activeStations > 0 {
		avgStationUtil = stationUtilSum / float64(activeStations)
	}

	return FactoryMetrics{
		TotalProductiveTimeMinutes:    round2(d.ActiveMinutes),
		TotalIdleTimeMinutes:          round2(d.IdleMinutes),
		TotalProductionCount:          t.units,
		AverageProductionRate:         round2(rate),
		AverageWorkerUtilization:      round2(avgWorkerUtil),
		AverageWorkstationUtilization: round2(avgStationUtil),
		TotalEvents:                   t.total,
		ActiveWorkers:                 activeWorkers,
		ActiveWorkstations:            activeStations,
	}, nil
}

// Dashboard bundles factory, worker, and station metrics in one pass.
func (e *Engine) Dashboard(ctx context.Context, w Window) (DashboardSummary, error) {
	factory, err := e.FactoryMetrics(ctx, w)
	if err != nil {
		return DashboardSummary{}, err
	}
	workers, err := e.WorkerMetrics(ctx, w)
	if err != nil {
		return DashboardSummary{}, err
	}
	stations, err := e.StationMetrics(ctx, w)
	if err != nil {
		return DashboardSummary{}, err
	}
	return DashboardSummary{
		FactoryMetrics:     factory,
		WorkerMetrics:      workers,
		WorkstationMetrics: stations,
		LastUpdated:        e.now().UTC(),
	}, nil
}

// IsNotFoundClassifier builds a notFound classifier from sentinel
// errors, for wiring the engine to a concrete directory.
func IsNotFoundClassifier(sentinels ...error) func(error) bool {
	return func(err error) bool {
		for _, s := range sentinels {
			if errors.Is(err, s) {
				return true
			}
		}
		return false
	}
}
