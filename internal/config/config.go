// Package config loads the service's ambient configuration: analyzer binary
// paths and timeouts, history size, rate limits, logging and the optional
// adapter bind address — the only knobs spec §6 says affect the core.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration struct, unmarshaled from TOML the way
// internal/common/config.go does it.
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Logging     LoggingConfig  `toml:"logging"`
	Jobs        JobsConfig     `toml:"jobs"`
	Analyzers   AnalyzersConfig `toml:"analyzers"`
}

// ServerConfig covers the optional bind host/port when the Adapter runs over
// a streaming transport (spec §6, "Environment").
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoggingConfig controls the optional debug-logging switch (spec §6).
type LoggingConfig struct {
	Level  string   `toml:"level"`
	Format string   `toml:"format"`
	Output []string `toml:"output"`
}

// JobsConfig bounds the Job Manager's History ring and admission rate.
type JobsConfig struct {
	MaxHistory        int     `toml:"max_history"`
	RateLimitPerSecond float64 `toml:"rate_limit_per_second"`
	RateLimitBurst     int     `toml:"rate_limit_burst"`
}

// AnalyzerConfig is the per-kind binary path, timeout and retry budget.
type AnalyzerConfig struct {
	Binary      string `toml:"binary"`
	TimeoutSec  int    `toml:"timeout_seconds"`
	MaxAttempts int    `toml:"max_attempts"`
}

// Timeout returns the configured timeout, or a supplied default if unset.
func (a AnalyzerConfig) Timeout(def time.Duration) time.Duration {
	if a.TimeoutSec <= 0 {
		return def
	}
	return time.Duration(a.TimeoutSec) * time.Second
}

// AnalyzersConfig groups the three Analyzer Driver configurations.
type AnalyzersConfig struct {
	Lint            AnalyzerConfig `toml:"lint"`
	StaticAnalysis  AnalyzerConfig `toml:"static_analysis"`
	Test            AnalyzerConfig `toml:"test"`
}

// Default returns the configuration used when no file is supplied: the
// conventional binary names on $PATH, a 100-entry history, and no rate limit.
func Default() *Config {
	return &Config{
		Environment: "development",
		Server:      ServerConfig{Host: "127.0.0.1", Port: 8090},
		Logging:     LoggingConfig{Level: "info", Format: "text", Output: []string{"stdout"}},
		Jobs:        JobsConfig{MaxHistory: 100},
		Analyzers: AnalyzersConfig{
			Lint:           AnalyzerConfig{Binary: "pylint", TimeoutSec: 30, MaxAttempts: 3},
			StaticAnalysis: AnalyzerConfig{Binary: "mypy", TimeoutSec: 30, MaxAttempts: 3},
			Test:           AnalyzerConfig{Binary: "pytest", TimeoutSec: 30, MaxAttempts: 3},
		},
	}
}

// LoadFromFile reads and parses a TOML config file, starting from Default()
// and letting the file's values override it. An empty path returns the
// defaults, matching the teacher's LoadFromFile(nil, "") fallback. In both
// cases the environment overrides are applied last.
func LoadFromFile(path string) (*Config, error) {
	config := Default()
	if path == "" {
		applyEnvOverrides(config)
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides lets a handful of environment variables win over file
// config, matching the teacher's env-override precedence in
// internal/common/config.go.
func applyEnvOverrides(config *Config) {
	if debug := os.Getenv("ANALYZER_DEBUG"); debug == "true" || debug == "1" {
		config.Logging.Level = "debug"
	}
	if host := os.Getenv("ANALYZER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("ANALYZER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
}
