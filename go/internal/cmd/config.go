package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config is the process configuration read from the environment
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// SettingsPath points at an optional league settings YAML file
	SettingsPath string `env:"LALIGA_CONFIG"`

	// RosterSource is demo, a YAML file path, or postgres
	RosterSource string `env:"LALIGA_ROSTER" envDefault:"demo"`
	Season       int    `env:"LALIGA_SEASON" envDefault:"2025"`

	// LotterySeed makes the draft lottery reproducible when not zero
	LotterySeed int64 `env:"LALIGA_LOTTERY_SEED"`

	// OutboxStore is memory, sqlite or postgres
	OutboxStore string `env:"LALIGA_OUTBOX" envDefault:"memory"`
	OutboxPath  string `env:"LALIGA_OUTBOX_PATH" envDefault:"laliga-outbox.db"`

	// NATSURL enables JetStream publishing when set
	NATSURL string `env:"NATS_URL"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) logLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}
