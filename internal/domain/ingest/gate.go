// Package ingest implements the ingestion gate: validation,
// deduplication, and exactly-once storage of observations.
//
// The source system is an edge device with intermittent connectivity.
// Batches may be re-sent wholesale after a network failure, so the gate
// is duplicate-tolerant and partial-failure tolerant: one malformed item
// never poisons a batch of otherwise-valid buffered observations.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/floorsight/internal/domain/model"
)

// Directory answers "is this identifier registered" questions. The gate
// treats it as a read-only oracle.
type Directory interface {
	WorkerExists(ctx context.Context, workerID string) (bool, error)
	StationExists(ctx context.Context, stationID string) (bool, error)
	WorkerIDs(ctx context.Context) (map[string]struct{}, error)
	StationIDs(ctx context.Context) (map[string]struct{}, error)
}

// EventSink stores accepted observations exactly once. A dedup-key
// collision must surface as an error matching IsDuplicate.
type EventSink interface {
	InsertEvent(ctx context.Context, e *model.Event) error
}

// Candidate is one observation offered for storage. Timestamp is the
// caller-supplied semantic clock; the gate assigns the arrival clock.
type Candidate struct {
	Timestamp     time.Time
	WorkerID      string
	WorkstationID string
	Type          model.EventType
	Confidence    float64
	Count         int
}

func (c Candidate) validate() error {
	if c.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrValidation)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: event_type %q", ErrValidation, c.Type)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range [0,1]", ErrValidation, c.Confidence)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: count %d must be non-negative", ErrValidation, c.Count)
	}
	return nil
}

// event builds the storable row: count is normalized to zero for state
// observations so aggregation never has to special-case it, and the
// arrival clock is stamped here.
func (c Candidate) event(receivedAt time.Time) model.Event {
	count := c.Count
	if c.Type != model.EventProductCount {
		count = 0
	}
	return model.Event{
		Timestamp:     c.Timestamp,
		WorkerID:      c.WorkerID,
		WorkstationID: c.WorkstationID,
		Type:          c.Type,
		Confidence:    c.Confidence,
		Count:         count,
		ReceivedAt:    receivedAt,
	}
}

// BatchResult summarizes one batch submission. Errors holds at most the
// configured diagnostic cap; items past the cap are still attempted,
// only their messages are dropped.
type BatchResult struct {
	TotalReceived      int      `json:"total_received"`
	SuccessfullyStored int      `json:"successfully_stored"`
	DuplicatesSkipped  int      `json:"duplicates_skipped"`
	Errors             []string `json:"errors"`
}

// Gate validates candidates against the directory and hands accepted
// ones to the sink. It keeps no state between calls; dedup correctness
// comes entirely from the sink's uniqueness constraint.
type Gate struct {
	dir            Directory
	sink           EventSink
	isDuplicate    func(error) bool
	now            func() time.Time
	maxDiagnostics int
}

const defaultMaxDiagnostics = 10

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithClock overrides the arrival-clock source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithMaxDiagnostics caps the number of textual diagnostics retained
// per batch.
func WithMaxDiagnostics(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.maxDiagnostics = n
		}
	}
}

// New constructs a Gate. isDuplicate classifies sink errors as
// dedup-key collisions.
func New(dir Directory, sink EventSink, isDuplicate func(error) bool, opts ...Option) *Gate {
	g := &Gate{
		dir:            dir,
		sink:           sink,
		isDuplicate:    isDuplicate,
		now:            time.Now,
		maxDiagnostics: defaultMaxDiagnostics,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ingest validates and stores a single observation. It returns the
// stored event, or an error matching ErrValidation,
// ErrReferenceNotFound, or the sink's duplicate kind.
func (g *Gate) Ingest(ctx context.Context, c Candidate) (model.Event, error) {
	if err := c.validate(); err != nil {
		return model.Event{}, err
	}

	ok, err := g.dir.WorkerExists(ctx, c.WorkerID)
	if err != nil {
		return model.Event{}, fmt.Errorf("resolve worker: %w", err)
	}
	if !ok {
		return model.Event{}, fmt.Errorf("%w: worker %q", ErrReferenceNotFound, c.WorkerID)
	}

	ok, err = g.dir.StationExists(ctx, c.WorkstationID)
	if err != nil {
		return model.Event{}, fmt.Errorf("resolve workstation: %w", err)
	}
	if !ok {
		return model.Event{}, fmt.Errorf("%w: workstation %q", ErrReferenceNotFound, c.WorkstationID)
	}

	e := c.event(g.now().UTC())
	if err := g.sink.InsertEvent(ctx, &e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// IngestBatch processes candidates sequentially and independently.
// Reference and validation failures become diagnostics, duplicates are
// counted, and neither aborts the rest of the batch. Only a directory
// read failure or a non-duplicate sink failure fails the whole call.
func (g *Gate) IngestBatch(ctx context.Context, candidates []Candidate) (BatchResult, error) {
	res := BatchResult{TotalReceived: len(candidates), Errors: []string{}}

	workers, err := g.dir.WorkerIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("load worker ids: %w", err)
	}
	stations, err := g.dir.StationIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("load station ids: %w", err)
	}

	diag := func(format string, args ...any) {
		if len(res.Errors) < g.maxDiagnostics {
			res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
		}
	}

	for _, c := range candidates {
		if err := c.validate(); err != nil {
			diag("%v", err)
			continue
		}
		if _, ok := workers[c.WorkerID]; !ok {
			diag("unknown worker_id: %s", c.WorkerID)
			continue
		}
		if _, ok := stations[c.WorkstationID]; !ok {
			diag("unknown workstation_id: %s", c.WorkstationID)
			continue
		}

		e := c.event(g.now().UTC())
		switch err := g.sink.InsertEvent(ctx, &e); {
		case err == nil:
			res.SuccessfullyStored++
		case g.isDuplicate(err):
			res.DuplicatesSkipped++
		default:
			return res, fmt.Errorf("store event: %w", err)
		}
	}
	return res, nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsReferenceNotFound reports whether err is an unknown-reference
// failure.
func IsReferenceNotFound(err error) bool { return errors.Is(err, ErrReferenceNotFound) }
