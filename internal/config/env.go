package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// DefaultStorePath is the snapshot file used when nothing else is given.
const DefaultStorePath = "balanced_rand_data.json"

// Env holds the environment defaults of the command line.
type Env struct {
	Store       string `env:"BALANCEDRAW_STORE" envDefault:"balanced_rand_data.json"`
	Backend     string `env:"BALANCEDRAW_BACKEND" envDefault:"json"`
	LogLevel    string `env:"BALANCEDRAW_LOG_LEVEL" envDefault:"info"`
	MetricsFile string `env:"BALANCEDRAW_METRICS_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// Level parses LogLevel (debug, info, warn, error).
func (e Env) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("BALANCEDRAW_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
