// Package model contains domain entities passed between layers.
package model

import "time"

// EventType enumerates the observation kinds emitted by the vision pipeline.
type EventType string

// Closed enumeration of observation types.
const (
	EventWorking      EventType = "working"
	EventIdle         EventType = "idle"
	EventAbsent       EventType = "absent"
	EventProductCount EventType = "product_count"
)

// Valid reports whether t is one of the known observation types.
func (t EventType) Valid() bool {
	switch t {
	case EventWorking, EventIdle, EventAbsent, EventProductCount:
		return true
	default:
		return false
	}
}

// TimeBearing reports whether observations of this type convert into
// elapsed activity time. product_count observations are instantaneous
// unit counts and carry no duration.
func (t EventType) TimeBearing() bool {
	switch t {
	case EventWorking, EventIdle, EventAbsent:
		return true
	default:
		return false
	}
}

// Event is one stored observation from the vision pipeline.
//
// Timestamp is the instant the observation pertains to, supplied by the
// source system. ReceivedAt is assigned at acceptance and exists only for
// arrival-order auditing. The tuple (Timestamp, WorkerID, WorkstationID,
// Type) is unique in storage: two observations with identical values for
// all four fields are the same real-world observation.
type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time `gorm:"uniqueIndex:uq_event_dedup;index:ix_events_timestamp" json:"timestamp"`
	WorkerID      string    `gorm:"uniqueIndex:uq_event_dedup;index:ix_events_worker_ts;size:50" json:"worker_id"`
	WorkstationID string    `gorm:"uniqueIndex:uq_event_dedup;index:ix_events_station_ts;size:50" json:"workstation_id"`
	Type          EventType `gorm:"column:event_type;uniqueIndex:uq_event_dedup;index:ix_events_type;size:50" json:"event_type"`
	Confidence    float64   `json:"confidence"`
	Count         int       `json:"count"`
	ReceivedAt    time.Time `gorm:"index" json:"received_at"`
}

// TableName pins the storage table name.
func (Event) TableName() string { return "events" }

// EventFilter narrows event reads. Zero-valued fields are ignored; nil
// time bounds mean unbounded on that side (both bounds are inclusive).
// Limit <= 0 means no limit.
type EventFilter struct {
	WorkerID      string
	WorkstationID string
	Type          EventType
	Start         *time.Time
	End           *time.Time
	Limit         int
	Offset        int
}
