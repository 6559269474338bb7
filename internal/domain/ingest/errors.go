package ingest

import "errors"

// Sentinel kinds for ingestion outcomes.
var (
	// ErrValidation marks input that can never succeed: bad enum value
	// or out-of-range numeric field.
	ErrValidation = errors.New("invalid event")

	// ErrReferenceNotFound marks an event referencing a worker or
	// workstation that is not registered yet. Distinct from
	// ErrValidation so callers can tell "never valid" from "not yet
	// seeded".
	ErrReferenceNotFound = errors.New("unknown reference")
)
