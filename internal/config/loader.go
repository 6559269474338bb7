package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FLOORSIGHT_CONFIG is set
//  3. env (prefix FLOORSIGHT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FLOORSIGHT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FLOORSIGHT_ADDR, FLOORSIGHT_DB_PATH, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("FLOORSIGHT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "floorsight_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.EventDurationMinutes < 1:
		return fmt.Errorf("%w: event_duration_minutes must be >= 1", ErrInvalidConfig)
	case c.MaxBatchSize < 1:
		return fmt.Errorf("%w: max_batch_size must be >= 1", ErrInvalidConfig)
	case c.MaxListLimit < 1:
		return fmt.Errorf("%w: max_list_limit must be >= 1", ErrInvalidConfig)
	}
	return nil
}
