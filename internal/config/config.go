// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

// Package config loads and validates the client configuration from an
// optional YAML file overlaid with command-line flags.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Storage backend names accepted in configuration.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// API configures the backend transport.
type API struct {
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries uint64        `koanf:"max_retries"`
}

// Location configures the accuracy gate.
type Location struct {
	AccuracyThreshold float64 `koanf:"accuracy_threshold"`
}

// Storage configures the two session tiers.
type Storage struct {
	Backend     string `koanf:"backend"`
	RedisAddr   string `koanf:"redis_addr"`
	DatabaseURL string `koanf:"database_url"`
	// SealingKey is the hex-encoded 32-byte key for the secrets tier.
	SealingKey string `koanf:"sealing_key"`
}

// Log configures logging output.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the complete client configuration.
type Config struct {
	API         API      `koanf:"api"`
	Location    Location `koanf:"location"`
	Storage     Storage  `koanf:"storage"`
	Log         Log      `koanf:"log"`
	MetricsAddr string   `koanf:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: API{
			Timeout:    15 * time.Second,
			MaxRetries: 2,
		},
		Location: Location{AccuracyThreshold: 30},
		Storage:  Storage{Backend: BackendMemory},
		Log:      Log{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// given, then any set flags on top.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return oops.Code("CONFIG_INVALID").
			Errorf("api.timeout must be positive")
	}
	if c.Location.AccuracyThreshold <= 0 {
		return oops.Code("CONFIG_INVALID").
			Errorf("location.accuracy_threshold must be positive")
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return oops.Code("CONFIG_INVALID").
				Errorf("storage.redis_addr is required for the redis backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return oops.Code("CONFIG_INVALID").
				Errorf("storage.database_url is required for the postgres backend")
		}
	default:
		return oops.Code("CONFIG_INVALID").
			With("backend", c.Storage.Backend).
			Errorf("unknown storage backend")
	}
	if c.Storage.SealingKey == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("storage.sealing_key is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	return nil
}
