// Package config builds the server configuration from the environment so main
// stays lean. A .env file in the working directory is loaded first when present;
// real environment variables always win over it.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Draft backends.
const (
	DraftBackendSQLite = "sqlite"
	DraftBackendRedis  = "redis"
	DraftBackendMemory = "memory"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr         string
	DBPath       string
	DraftBackend string
	RedisURL     string
	DraftTTL     time.Duration
	LogLevel     slog.Level
	// RatesFile is an optional JSON array of rates documents overlaid on the
	// built-in table at startup.
	RatesFile string
	// AllowedOrigins is the CORS allow list for the wizard frontend.
	AllowedOrigins []string
}

// Load reads the optional .env file, then the environment.
func Load() (Config, error) {
	// godotenv.Load never overrides a variable that is already set.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:         GetEnv("WAGE_ADDR", ":8080"),
		DBPath:       GetEnv("WAGE_DB", "wage.db"),
		DraftBackend: strings.ToLower(GetEnv("WAGE_DRAFT_BACKEND", DraftBackendSQLite)),
		RedisURL:     GetEnv("WAGE_REDIS_URL"),
		RatesFile:    GetEnv("WAGE_RATES_FILE"),
	}

	for _, origin := range strings.Split(GetEnv("WAGE_CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	ttl, err := time.ParseDuration(GetEnv("WAGE_DRAFT_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("WAGE_DRAFT_TTL: %w", err)
	}
	cfg.DraftTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(GetEnv("WAGE_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("WAGE_LOG_LEVEL: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.DraftBackend {
	case DraftBackendSQLite, DraftBackendMemory:
	case DraftBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("draft backend %q needs WAGE_REDIS_URL", c.DraftBackend)
		}
	default:
		return fmt.Errorf("unknown draft backend %q", c.DraftBackend)
	}
	if c.DraftTTL < 0 {
		return fmt.Errorf("draft TTL must not be negative")
	}
	return nil
}

// GetEnv returns the variable or the first default when it is unset.
func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// NewLogger returns a JSON logger at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
