// config.go
//
// Runtime configuration for the score keeper.
// Values come from the environment (optionally seeded from a .env file by
// main) and are parsed into a typed struct.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	backendSQLite = "sqlite"
	backendBolt   = "bolt"
	backendMemory = "memory"
)

type config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DBPath         string        `env:"DB_PATH" envDefault:"./data/app.db"`
	BoltPath       string        `env:"BOLT_PATH" envDefault:"./data/havefun.bolt"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	TrucoCeiling   int           `env:"TRUCO_CEILING" envDefault:"15"`
	WinDebounce    time.Duration `env:"WIN_DEBOUNCE" envDefault:"2s"`
}

// loadConfig parses the environment and validates the enumerated fields.
func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	switch cfg.StorageBackend {
	case backendSQLite, backendBolt, backendMemory:
	default:
		return config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.WinDebounce < 0 {
		return config{}, fmt.Errorf("WIN_DEBOUNCE must not be negative")
	}
	return cfg, nil
}

// level maps LOG_LEVEL to a zerolog level, falling back to info.
func (c config) level() zerolog.Level {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}
