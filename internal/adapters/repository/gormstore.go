package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/floorsight/internal/domain/model"
)

// GormStore implements Store on a SQLite database via GORM. All dedup
// correctness comes from the composite unique index on the events table;
// the store holds no application-level locks.
type GormStore struct {
	db *gorm.DB
}

// New opens (or creates) the SQLite database at path and migrates the
// schema.
func New(path string, opts ...Option) (*GormStore, error) {
	cfg := newOptions(opts...)

	level := gormlogger.Silent
	if cfg.sqlLogging {
		level = gormlogger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", errors.Join(ErrUnavailable, err))
	}
	if err := db.AutoMigrate(&model.Worker{}, &model.Workstation{}, &model.Event{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", errors.Join(ErrUnavailable, err))
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// isDuplicateKey recognizes a uniqueness-constraint violation. GORM's
// error translation covers the common case; the string check catches
// drivers that do not translate.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

// --- events ---

// InsertEvent appends one observation. A dedup-key collision yields
// ErrDuplicateEvent and leaves the stored row untouched.
func (s *GormStore) InsertEvent(ctx context.Context, e *model.Event) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEvent
		}
		return ioErr("insert event", err)
	}
	return nil
}

func applyFilter(db *gorm.DB, f model.EventFilter) *gorm.DB {
	if f.WorkerID != "" {
		db = db.Where("worker_id = ?", f.WorkerID)
	}
	if f.WorkstationID != "" {
		db = db.Where("workstation_id = ?", f.WorkstationID)
	}
	if f.Type != "" {
		db = db.Where("event_type = ?", f.Type)
	}
	if f.Start != nil {
		db = db.Where("timestamp >= ?", *f.Start)
	}
	if f.End != nil {
		db = db.Where("timestamp <= ?", *f.End)
	}
	return db
}

// ListEvents returns matching observations ordered newest first.
func (s *GormStore) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	q := applyFilter(s.db.WithContext(ctx).Model(&model.Event{}), f).
		Order("timestamp DESC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var events []model.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, ioErr("list events", err)
	}
	return events, nil
}

// CountEvents returns the number of matching observations.
func (s *GormStore) CountEvents(ctx context.Context, f model.EventFilter) (int64, error) {
	var n int64
	q := applyFilter(s.db.WithContext(ctx).Model(&model.Event{}), f)
	if err := q.Count(&n).Error; err != nil {
		return 0, ioErr("count events", err)
	}
	return n, nil
}

// DeleteAllEvents removes every stored observation and reports how many
// rows went away. Reference data is untouched.
func (s *GormStore) DeleteAllEvents(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.Event{})
	if res.Error != nil {
		return 0, ioErr("delete events", res.Error)
	}
	return res.RowsAffected, nil
}

// --- workers ---

// CreateWorker registers a worker. Returns ErrWorkerExists when the
// worker_id is already taken.
func (s *GormStore) CreateWorker(ctx context.Context, w *model.Worker) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrWorkerExists
		}
		return ioErr("create worker", err)
	}
	return nil
}

// GetWorker fetches one worker by its external id.
func (s *GormStore) GetWorker(ctx context.Context, workerID string) (model.Worker, error) {
	var w model.Worker
	err := s.db.WithContext(ctx).Where("worker_id = ?", workerID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Worker{}, ErrWorkerNotFound
		}
		return model.Worker{}, ioErr("get worker", err)
	}
	return w, nil
}

// ListWorkers returns all registered workers.
func (s *GormStore) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	if err := s.db.WithContext(ctx).Order("worker_id").Find(&workers).Error; err != nil {
		return nil, ioErr("list workers", err)
	}
	return workers, nil
}

// WorkerIDs returns the set of registered worker ids for batch
// reference validation.
func (s *GormStore) WorkerIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&model.Worker{}).Pluck("worker_id", &ids).Error; err != nil {
		return nil, ioErr("list worker ids", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// WorkerExists reports whether a worker id is registered.
func (s *GormStore) WorkerExists(ctx context.Context, workerID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Worker{}).
		Where("worker_id = ?", workerID).Count(&n).Error
	if err != nil {
		return false, ioErr("check worker", err)
	}
	return n > 0, nil
}

// DeleteWorker removes a worker registration.
func (s *GormStore) DeleteWorker(ctx context.Context, workerID string) error {
	res := s.db.WithContext(ctx).Where("worker_id = ?", workerID).Delete(&model.Worker{})
	if res.Error != nil {
		return ioErr("delete worker", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

// CountWorkers returns the number of registered workers.
func (s *GormStore) CountWorkers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Worker{}).Count(&n).Error; err != nil {
		return 0, ioErr("count workers", err)
	}
	return n, nil
}

// --- workstations ---

// CreateStation registers a workstation. Returns ErrStationExists when
// the station_id is already taken.
func (s *GormStore) CreateStation(ctx context.Context, w *model.Workstation) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrStationExists
		}
		return ioErr("create workstation", err)
	}
	return nil
}

// GetStation fetches one workstation by its external id.
func (s *GormStore) GetStation(ctx context.Context, stationID string) (model.Workstation, error) {
	var st model.Workstation
	err := s.db.WithContext(ctx).Where("station_id = ?", stationID).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Workstation{}, ErrStationNotFound
		}
		return model.Workstation{}, ioErr("get workstation", err)
	}
	return st, nil
}

// ListStations returns all registered workstations.
func (s *GormStore) ListStations(ctx context.Context) ([]model.Workstation, error) {
	var stations []model.Workstation
	if err := s.db.WithContext(ctx).Order("station_id").Find(&stations).Error; err != nil {
		return nil, ioErr("list workstations", err)
	}
	return stations, nil
}

// StationIDs returns the set of registered station ids for batch
// reference validation.
func (s *GormStore) StationIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&model.Workstation{}).Pluck("station_id", &ids).Error; err != nil {
		return nil, ioErr("list station ids", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// StationExists reports whether a station id is registered.
func (s *GormStore) StationExists(ctx context.Context, stationID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Workstation{}).
		Where("station_id = ?", stationID).Count(&n).Error
	if err != nil {
		return false, ioErr("check workstation", err)
	}
	return n > 0, nil
}

// DeleteStation removes a workstation registration.
func (s *GormStore) DeleteStation(ctx context.Context, stationID string) error {
	res := s.db.WithContext(ctx).Where("station_id = ?", stationID).Delete(&model.Workstation{})
	if res.Error != nil {
		return ioErr("delete workstation", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStationNotFound
	}
	return nil
}

// CountStations returns the number of registered workstations.
func (s *GormStore) CountStations(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Workstation{}).Count(&n).Error; err != nil {
		return 0, ioErr("count workstations", err)
	}
	return n, nil
}
