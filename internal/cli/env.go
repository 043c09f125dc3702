package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds defaults taken from MDAQ_* environment variables.
// Flags always win over the environment.
type EnvConfig struct {
	DB        string `env:"MDAQ_DB"`
	LogLevel  string `env:"MDAQ_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MDAQ_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads EnvConfig from the process environment.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the slog logger for a command. --verbose forces debug.
func NewLogger(w io.Writer, cfg EnvConfig, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("MDAQ_LOG_LEVEL: %w", err)
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("MDAQ_LOG_FORMAT: unknown format %q (want text or json)", cfg.LogFormat)
	}
}

// databasePath resolves --db against MDAQ_DB.
func databasePath(flag string, cfg EnvConfig) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.DB != "" {
		return cfg.DB, nil
	}
	return "", NewExitError(ExitCommandError, "no database: pass --db or set MDAQ_DB")
}
