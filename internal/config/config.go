package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        `env:"PRIVA_ADDR" envDefault:":8080"`
	DatabasePath    string        `env:"PRIVA_DB" envDefault:"privas.db"`
	MigrationsURL   string        `env:"PRIVA_MIGRATIONS" envDefault:"file://migrations"`
	LogLevel        slog.Level    `env:"PRIVA_LOG_LEVEL" envDefault:"info"`
	SessionLifetime time.Duration `env:"PRIVA_SESSION_LIFETIME" envDefault:"24h"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
