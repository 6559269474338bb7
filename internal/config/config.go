// Package config defines service configuration structures and loading
// hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file location.
	DBPath string `koanf:"db_path"`

	// EventDurationMinutes is the assumed activity span of one
	// observation, the D of the time-inference model.
	EventDurationMinutes int `koanf:"event_duration_minutes"`

	// DuplicateWindowSeconds is declared for a future window-based
	// dedup mode. The implemented uniqueness rule is an exact
	// timestamp match; this knob is reserved and currently unused.
	DuplicateWindowSeconds int `koanf:"duplicate_window_seconds"`

	// ShiftDurationHours is reserved for per-shift metrics.
	ShiftDurationHours int `koanf:"shift_duration_hours"`

	// MaxBatchSize caps POST /events/batch item counts.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxListLimit caps GET /events?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// SeedOnStart seeds sample reference data at startup and, when the
	// event table is empty, generates an initial week of synthetic
	// events. Meant for demo installs.
	SeedOnStart bool `koanf:"seed_on_start"`
}

// Defaults mirrored by the config file example in the repo root.
const (
	defaultAddr                 = ":9080"
	defaultDBPath               = "floorsight.db"
	defaultEventDurationMinutes = 5
	defaultDuplicateWindowSecs  = 10
	defaultShiftDurationHours   = 8
	defaultMaxBatchSize         = 1000
	defaultMaxListLimit         = 1000
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   defaultAddr,
		DBPath:                 defaultDBPath,
		EventDurationMinutes:   defaultEventDurationMinutes,
		DuplicateWindowSeconds: defaultDuplicateWindowSecs,
		ShiftDurationHours:     defaultShiftDurationHours,
		MaxBatchSize:           defaultMaxBatchSize,
		MaxListLimit:           defaultMaxListLimit,
		SeedOnStart:            true,
	}
}
