// Package config loads server settings from the environment.
// An optional .env file in the working directory is read first; variables
// already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Port            int
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	LogLevel        string
	EnableScheduler bool
	CacheTTL        time.Duration
}

// Defaults used when a variable is unset.
const (
	DefaultPort     = 8080
	DefaultDBPath   = "./data/casal.db"
	DefaultTokenTTL = 24 * time.Hour
	DefaultCacheTTL = 30 * time.Second
	DefaultLogLevel = "info"
	devJWTSecret    = "dev-secret-change-me"
)

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		DBPath:          stringOr(getenv("DB_PATH"), DefaultDBPath),
		JWTSecret:       stringOr(getenv("JWT_SECRET"), devJWTSecret),
		TokenTTL:        DefaultTokenTTL,
		LogLevel:        stringOr(getenv("LOG_LEVEL"), DefaultLogLevel),
		EnableScheduler: true,
		CacheTTL:        DefaultCacheTTL,
	}

	var err error
	if v := getenv("PORT"); v != "" {
		if cfg.Port, err = strconv.Atoi(v); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
	}
	if v := getenv("TOKEN_TTL"); v != "" {
		if cfg.TokenTTL, err = time.ParseDuration(v); err != nil || cfg.TokenTTL <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q", v)
		}
	}
	if v := getenv("CACHE_TTL"); v != "" {
		if cfg.CacheTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
	}
	if v := getenv("ENABLE_SCHEDULER"); v != "" {
		if cfg.EnableScheduler, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid ENABLE_SCHEDULER %q: %w", v, err)
		}
	}

	return cfg, nil
}

// UsesDevSecret reports whether JWT_SECRET was left unset.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
