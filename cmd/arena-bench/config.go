package main

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors
var (
	ErrInvalidMetricsAddr = errors.New("metrics_addr cannot be empty")
	ErrInvalidWorkers     = errors.New("workers must be positive")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidMaxAlloc    = errors.New("max_alloc must be positive")
	ErrInvalidHoldDepth   = errors.New("hold_depth must be positive")
	ErrInvalidLogFormat   = errors.New("log_format must be 'json' or 'console'")
)

// Config holds the benchmark configuration, populated from the environment
// (optionally preloaded from a .env file).
type Config struct {
	MetricsAddr string        `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090"`
	Workers     int           `envconfig:"WORKERS" default:"4"`
	Duration    time.Duration `envconfig:"DURATION" default:"10s"`
	MaxAlloc    int           `envconfig:"MAX_ALLOC" default:"4096"`
	HoldDepth   int           `envconfig:"HOLD_DEPTH" default:"64"`
	LogFormat   string        `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ARENABENCH", &cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid.
func ValidateConfig(cfg *Config) error {
	if cfg.MetricsAddr == "" {
		return ErrInvalidMetricsAddr
	}
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if cfg.Duration <= 0 {
		return ErrInvalidDuration
	}
	if cfg.MaxAlloc <= 0 {
		return ErrInvalidMaxAlloc
	}
	if cfg.HoldDepth <= 0 {
		return ErrInvalidHoldDepth
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	return nil
}
