package analytics

import "time"

// Window bounds a metrics query on the semantic clock (Event.Timestamp).
// Nil bounds mean unbounded on that side; both bounds are inclusive.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// WorkerMetrics is the per-worker productivity projection.
//
// Utilization measures productivity while present: absent time is
// excluded from the denominator. UnitsPerHour divides production by
// active hours and is zero when there is no active time.
type WorkerMetrics struct {
	WorkerID               string  `json:"worker_id"`
	WorkerName             string  `json:"worker_name"`
	TotalActiveTimeMinutes float64 `json:"total_active_time_minutes"`
	TotalIdleTimeMinutes   float64 `json:"total_idle_time_minutes"`
	TotalAbsentTimeMinutes float64 `json:"total_absent_time_minutes"`
	UtilizationPercentage  float64 `json:"utilization_percentage"`
	TotalUnitsProduced     int     `json:"total_units_produced"`
	UnitsPerHour           float64 `json:"units_per_hour"`
	EventCount             int     `json:"event_count"`
}

// WorkstationMetrics is the per-station productivity projection. The
// utilization denominator is occupancy: time the station was in use by
// anyone, working or idle. Structurally the same ratio as the worker's
// present time, kept under its own name because downstream consumers
// rely on the distinct label.
type WorkstationMetrics struct {
	StationID             string  `json:"station_id"`
	StationName           string  `json:"station_name"`
	StationType           string  `json:"station_type"`
	OccupancyTimeMinutes  float64 `json:"occupancy_time_minutes"`
	WorkingTimeMinutes    float64 `json:"working_time_minutes"`
	IdleTimeMinutes       float64 `json:"idle_time_minutes"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
	TotalUnitsProduced    int     `json:"total_units_produced"`
	ThroughputRate        float64 `json:"throughput_rate"`
	EventCount            int     `json:"event_count"`
}

// FactoryMetrics aggregates over all events in the window. The average
// utilizations are arithmetic means of per-entity utilization over
// entities with at least one event in the window; entities with zero
// events are excluded from the denominator entirely.
type FactoryMetrics struct {
	TotalProductiveTimeMinutes    float64 `json:"total_productive_time_minutes"`
	TotalIdleTimeMinutes          float64 `json:"total_idle_time_minutes"`
	TotalProductionCount          int     `json:"total_production_count"`
	AverageProductionRate         float64 `json:"average_production_rate"`
	AverageWorkerUtilization      float64 `json:"average_worker_utilization"`
	AverageWorkstationUtilization float64 `json:"average_workstation_utilization"`
	TotalEvents                   int     `json:"total_events"`
	ActiveWorkers                 int     `json:"active_workers"`
	ActiveWorkstations            int     `json:"active_workstations"`
}

// DashboardSummary bundles everything a dashboard render needs.
type DashboardSummary struct {
	FactoryMetrics     FactoryMetrics       `json:"factory_metrics"`
	WorkerMetrics      []WorkerMetrics      `json:"worker_metrics"`
	WorkstationMetrics []WorkstationMetrics `json:"workstation_metrics"`
	LastUpdated        time.Time            `json:"last_updated"`
}

// UnknownEntityName is the sentinel display name returned when metrics
// are requested for an identifier the directory does not know. A known
// entity with zero events keeps its real name and zeroed numbers.
const UnknownEntityName = "Unknown"
