// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	api "github.com/okian/floorsight/internal/adapters/http/api"
	repository "github.com/okian/floorsight/internal/adapters/repository"
	"github.com/okian/floorsight/internal/domain/analytics"
	"github.com/okian/floorsight/internal/domain/inference"
	"github.com/okian/floorsight/internal/domain/ingest"
	"github.com/okian/floorsight/internal/domain/model"
	"github.com/okian/floorsight/internal/sampledata"
	"github.com/okian/floorsight/pkg/logger"
	"github.com/okian/floorsight/pkg/metrics"
)

// Bootstrap profile for a store that starts empty.
const (
	bootstrapDays         = 7
	bootstrapEventsPerDay = 100
)

// Service implements the API dependencies for the productivity system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	gate   *ingest.Gate
	engine *analytics.Engine

	// Configuration
	dbPath        string
	eventDuration time.Duration
	seedOnStart   bool

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite database path.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithEventDuration sets the per-event duration of the time-inference
// model.
func WithEventDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.eventDuration = d
		}
	}
}

// WithSeedOnStart controls whether an empty store is populated with
// sample data at startup.
func WithSeedOnStart(seed bool) Option {
	return func(s *Service) {
		s.seedOnStart = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:        "floorsight.db",
		eventDuration: inference.DefaultEventDuration,
		seedOnStart:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and wires the ingestion gate and analytics
// engine. On an empty store it optionally seeds reference data and a
// sample event history so metrics endpoints have something to show.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting floorsight service", logger.String("db", s.dbPath))

	store, err := repository.New(s.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	s.store = store

	s.gate = ingest.New(store, store, s.IsDuplicate)
	s.engine = analytics.New(store, store,
		analytics.IsNotFoundClassifier(repository.ErrWorkerNotFound, repository.ErrStationNotFound),
		analytics.WithModel(inference.New(inference.WithEventDuration(s.eventDuration))),
	)

	if s.seedOnStart {
		if err := s.bootstrap(ctx); err != nil {
			_ = store.Close()
			return err
		}
	}

	s.started = true
	s.startedAt = time.Now()
	s.refreshGauges(ctx)
	s.logger.Info(ctx, "floorsight service started",
		logger.Duration("eventDuration", s.eventDuration),
	)
	return nil
}

// bootstrap seeds reference data and, when the event stream is empty,
// a default sample history.
func (s *Service) bootstrap(ctx context.Context) error {
	workers, stations, err := sampledata.SeedReferenceData(ctx, s.store)
	if err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	if workers > 0 || stations > 0 {
		s.logger.Info(ctx, "seeded reference data",
			logger.Int("workers", workers),
			logger.Int("workstations", stations),
		)
	}

	n, err := s.store.CountEvents(ctx, model.EventFilter{})
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if n > 0 {
		return nil
	}

	created, err := sampledata.GenerateEvents(ctx, s.store, sampledata.GenerateOptions{
		NumDays:      bootstrapDays,
		EventsPerDay: bootstrapEventsPerDay,
	})
	if err != nil {
		return fmt.Errorf("generate sample events: %w", err)
	}
	s.logger.Info(ctx, "generated sample events", logger.Int("events", created))
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping floorsight service")
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
}

// Error classifiers exposed to the handler layer.

func (s *Service) IsDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicateEvent)
}

func (s *Service) IsConflict(err error) bool {
	return errors.Is(err, repository.ErrWorkerExists) || errors.Is(err, repository.ErrStationExists)
}

func (s *Service) IsMissing(err error) bool {
	return errors.Is(err, repository.ErrWorkerNotFound) || errors.Is(err, repository.ErrStationNotFound)
}

// IngestEvent validates and stores one observation, recording the
// ingestion outcome.
func (s *Service) IngestEvent(ctx context.Context, c ingest.Candidate) (model.Event, error) {
	e, err := s.gate.Ingest(ctx, c)
	switch {
	case err == nil:
		metrics.RecordEventStored()
	case ingest.IsValidation(err):
		metrics.RecordEventRejected(metrics.ReasonValidation)
	case ingest.IsReferenceNotFound(err):
		metrics.RecordEventRejected(metrics.ReasonReference)
	case s.IsDuplicate(err):
		metrics.RecordEventDuplicate()
	}
	return e, err
}

// IngestBatch runs a batch through the gate and records the aggregate
// outcome counts.
func (s *Service) IngestBatch(ctx context.Context, cs []ingest.Candidate) (ingest.BatchResult, error) {
	metrics.RecordBatch(len(cs))
	res, err := s.gate.IngestBatch(ctx, cs)
	metrics.RecordEventsStored(res.SuccessfullyStored)
	metrics.RecordEventsDuplicate(res.DuplicatesSkipped)
	return res, err
}

func (s *Service) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	return s.store.ListEvents(ctx, f)
}

func (s *Service) CountEvents(ctx context.Context, f model.EventFilter) (int64, error) {
	return s.store.CountEvents(ctx, f)
}

// Worker registry operations.

func (s *Service) CreateWorker(ctx context.Context, w model.Worker) (model.Worker, error) {
	if err := s.store.CreateWorker(ctx, &w); err != nil {
		return model.Worker{}, err
	}
	s.logger.Info(ctx, "worker registered", logger.String("workerID", w.WorkerID))
	return w, nil
}

func (s *Service) GetWorker(ctx context.Context, workerID string) (model.Worker, error) {
	return s.store.GetWorker(ctx, workerID)
}

func (s *Service) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	return s.store.ListWorkers(ctx)
}

func (s *Service) DeleteWorker(ctx context.Context, workerID string) error {
	return s.store.DeleteWorker(ctx, workerID)
}

// Workstation registry operations.

func (s *Service) CreateStation(ctx context.Context, st model.Workstation) (model.Workstation, error) {
	if err := s.store.CreateStation(ctx, &st); err != nil {
		return model.Workstation{}, err
	}
	s.logger.Info(ctx, "workstation registered", logger.String("stationID", st.StationID))
	return st, nil
}

func (s *Service) GetStation(ctx context.Context, stationID string) (model.Workstation, error) {
	return s.store.GetStation(ctx, stationID)
}

func (s *Service) ListStations(ctx context.Context) ([]model.Workstation, error) {
	return s.store.ListStations(ctx)
}

func (s *Service) DeleteStation(ctx context.Context, stationID string) error {
	return s.store.DeleteStation(ctx, stationID)
}

// Metric projections. Each call recomputes from the store and records
// its latency.

func (s *Service) timed(name string) func() {
	start := time.Now()
	return func() {
		ms := float64(time.Since(start)) / float64(time.Millisecond)
		metrics.RecordMetricsQueryDuration(ms)
		s.logger.Debug(context.Background(), "metrics query",
			logger.String("projection", name),
			logger.Float64("ms", ms),
		)
	}
}

func (s *Service) Dashboard(ctx context.Context, w analytics.Window) (analytics.DashboardSummary, error) {
	defer s.timed("dashboard")()
	return s.engine.Dashboard(ctx, w)
}

func (s *Service) FactoryMetrics(ctx context.Context, w analytics.Window) (analytics.FactoryMetrics, error) {
	defer s.timed("factory")()
	return s.engine.FactoryMetrics(ctx, w)
}

func (s *Service) WorkerMetrics(ctx context.Context, w analytics.Window) ([]analytics.WorkerMetrics, error) {
	defer s.timed("workers")()
	return s.engine.WorkerMetrics(ctx, w)
}

func (s *Service) WorkerMetricsByID(ctx context.Context, workerID string, w analytics.Window) (analytics.WorkerMetrics, error) {
	defer s.timed("worker")()
	return s.engine.WorkerMetricsByID(ctx, workerID, w)
}

func (s *Service) StationMetrics(ctx context.Context, w analytics.Window) ([]analytics.WorkstationMetrics, error) {
	defer s.timed("workstations")()
	return s.engine.StationMetrics(ctx, w)
}

func (s *Service) StationMetricsByID(ctx context.Context, stationID string, w analytics.Window) (analytics.WorkstationMetrics, error) {
	defer s.timed("workstation")()
	return s.engine.StationMetricsByID(ctx, stationID, w)
}

// Sample-data management.

func (s *Service) SeedReferenceData(ctx context.Context) (int, int, error) {
	workers, stations, err := sampledata.SeedReferenceData(ctx, s.store)
	if err == nil {
		s.refreshGauges(ctx)
	}
	return workers, stations, err
}

func (s *Service) GenerateEvents(ctx context.Context, opts sampledata.GenerateOptions) (int, error) {
	created, err := sampledata.GenerateEvents(ctx, s.store, opts)
	if err == nil {
		s.logger.Info(ctx, "generated sample events", logger.Int("events", created))
		s.refreshGauges(ctx)
	}
	return created, err
}

func (s *Service) ClearEvents(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAllEvents(ctx)
	if err == nil {
		s.logger.Info(ctx, "event stream cleared", logger.Int64("deleted", n))
		s.refreshGauges(ctx)
	}
	return n, err
}

// GetStats returns store totals for monitoring.
func (s *Service) GetStats(ctx context.Context) (api.Stats, error) {
	events, err := s.store.CountEvents(ctx, model.EventFilter{})
	if err != nil {
		return api.Stats{}, err
	}
	workers, err := s.store.CountWorkers(ctx)
	if err != nil {
		return api.Stats{}, err
	}
	stations, err := s.store.CountStations(ctx)
	if err != nil {
		return api.Stats{}, err
	}

	metrics.UpdateStoredEvents(events)
	metrics.UpdateRegisteredWorkers(workers)
	metrics.UpdateRegisteredStations(stations)

	s.mu.RLock()
	uptime := time.Since(s.startedAt).Seconds()
	s.mu.RUnlock()

	return api.Stats{
		TotalEvents:       events,
		TotalWorkers:      workers,
		TotalWorkstations: stations,
		UptimeSeconds:     uptime,
	}, nil
}

// refreshGauges pushes current store totals to the inventory gauges.
// Failures are ignored; the next successful refresh corrects them.
func (s *Service) refreshGauges(ctx context.Context) {
	if n, err := s.store.CountEvents(ctx, model.EventFilter{}); err == nil {
		metrics.UpdateStoredEvents(n)
	}
	if n, err := s.store.CountWorkers(ctx); err == nil {
		metrics.UpdateRegisteredWorkers(n)
	}
	if n, err := s.store.CountStations(ctx); err == nil {
		metrics.UpdateRegisteredStations(n)
	}
}
