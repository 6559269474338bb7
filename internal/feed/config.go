// Package feed submits synthetic observation batches to a running
// service, simulating the edge device's buffered uploads.
package feed

import (
	"errors"
	"time"
)

// Config controls one feed run.
type Config struct {
	// BaseURL of the target service.
	BaseURL string
	// NumEvents to generate and submit.
	NumEvents int
	// BatchSize of each upload.
	BatchSize int
	// Workers submitting batches concurrently.
	Workers int
	// Resend re-submits every batch once to exercise dedup.
	Resend bool
	// Timeout per HTTP request.
	Timeout time.Duration
	// Seed for the event generator; zero means time-seeded.
	Seed int64
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("base URL is required")
	case c.NumEvents < 1:
		return errors.New("event count must be positive")
	case c.BatchSize < 1:
		return errors.New("batch size must be positive")
	case c.Workers < 1:
		return errors.New("worker count must be positive")
	}
	return nil
}

// Stats accumulates the run outcome.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Generated  int
	Batches    int
	Stored     int64
	Duplicates int64
	Rejected   int64
	Failed     int64
}
