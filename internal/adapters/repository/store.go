// Package repository persists reference data and observations in a
// transactional relational store.
package repository

import (
	"context"

	"github.com/okian/floorsight/internal/domain/model"
)

// Directory exposes read access to registered workers and workstations.
// The ingestion gate treats it as a read-only oracle.
type Directory interface {
	GetWorker(ctx context.Context, workerID string) (model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	WorkerIDs(ctx context.Context) (map[string]struct{}, error)
	WorkerExists(ctx context.Context, workerID string) (bool, error)

	GetStation(ctx context.Context, stationID string) (model.Workstation, error)
	ListStations(ctx context.Context) ([]model.Workstation, error)
	StationIDs(ctx context.Context) (map[string]struct{}, error)
	StationExists(ctx context.Context, stationID string) (bool, error)
}

// EventStore is the append-only record of accepted observations.
// InsertEvent returns ErrDuplicateEvent on a dedup-key collision,
// distinct from generic I/O failure; the transactional uniqueness
// constraint is the system's only dedup mechanism, so two concurrent
// inserts of the same key yield exactly one success.
type EventStore interface {
	InsertEvent(ctx context.Context, e *model.Event) error
	ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	CountEvents(ctx context.Context, f model.EventFilter) (int64, error)
	DeleteAllEvents(ctx context.Context) (int64, error)
}

// Store is the full persistence surface: directory reads, reference
// entity administration, and the event store.
type Store interface {
	Directory
	EventStore

	CreateWorker(ctx context.Context, w *model.Worker) error
	DeleteWorker(ctx context.Context, workerID string) error
	CountWorkers(ctx context.Context) (int64, error)

	CreateStation(ctx context.Context, s *model.Workstation) error
	DeleteStation(ctx context.Context, stationID string) error
	CountStations(ctx context.Context) (int64, error)

	Close() error
}
