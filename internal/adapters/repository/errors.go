package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrDuplicateEvent reports a collision with the event dedup key
	// (timestamp, worker_id, workstation_id, event_type). It is an
	// expected outcome, not an I/O failure.
	ErrDuplicateEvent = errors.New("duplicate event")

	ErrWorkerNotFound  = errors.New("worker not found")
	ErrStationNotFound = errors.New("workstation not found")
	ErrWorkerExists    = errors.New("worker already exists")
	ErrStationExists   = errors.New("workstation already exists")

	// ErrUnavailable wraps store I/O failures that are not locally
	// recoverable. Retry, if any, belongs to the caller.
	ErrUnavailable = errors.New("store unavailable")
)
