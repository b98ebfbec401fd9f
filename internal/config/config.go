// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port                 string
	DBPath               string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SyncURL              string // companion web API base URL; empty disables the bridge
	WeatherURL           string // weather service base URL; empty means always unavailable
	GatewayKey           string // shared secret expected from the aggregator; empty disables the check
	DefaultLanguage      string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DBPath:               getEnv("DB_PATH", "./data/umurima.db"),
		SessionTTL:           getEnvDuration("SESSION_TTL", 180*time.Second),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 60*time.Second),
		SyncURL:              strings.TrimRight(getEnv("SYNC_URL", ""), "/"),
		WeatherURL:           getEnv("WEATHER_URL", ""),
		GatewayKey:           getEnv("GATEWAY_KEY", ""),
		DefaultLanguage:      getEnv("DEFAULT_LANGUAGE", "en"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}
	switch c.DefaultLanguage {
	case "en", "rw", "sw":
	default:
		return fmt.Errorf("DEFAULT_LANGUAGE must be one of en, rw, sw")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
