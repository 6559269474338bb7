// Package inference converts discrete observation counts into elapsed
// activity time.
//
// The vision pipeline samples each workstation at roughly regular
// intervals, so every stored state observation (working, idle, absent) is
// assumed to represent a fixed duration of that activity. N observations
// of a type therefore approximate N x D minutes, where D is the
// configured per-event duration. The conversion is a pure function of the
// observation histogram and D; it keeps no state.
package inference

import "time"

// DefaultEventDuration is the assumed activity span of one observation.
const DefaultEventDuration = 5 * time.Minute

// Histogram counts time-bearing observations by type. product_count
// observations never enter the histogram.
type Histogram struct {
	Working int
	Idle    int
	Absent  int
}

// Durations holds the inferred elapsed time per activity, in minutes.
type Durations struct {
	ActiveMinutes float64
	IdleMinutes   float64
	AbsentMinutes float64
}

// Model maps observation histograms to elapsed-time estimates.
type Model struct {
	eventDuration time.Duration
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithEventDuration sets the assumed duration of one observation.
// Non-positive values are ignored.
func WithEventDuration(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.eventDuration = d
		}
	}
}

// New constructs a Model with the default per-event duration.
func New(opts ...Option) Model {
	m := Model{eventDuration: DefaultEventDuration}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// EventDuration returns the configured per-event duration.
func (m Model) EventDuration() time.Duration {
	return m.eventDuration
}

// Durations converts an observation histogram into elapsed minutes per
// activity type.
func (m Model) Durations(h Histogram) Durations {
	perEvent := m.eventDuration.Minutes()
	return Durations{
		ActiveMinutes: float64(h.Working) * perEvent,
		IdleMinutes:   float64(h.Idle) * perEvent,
		AbsentMinutes: float64(h.Absent) * perEvent,
	}
}
