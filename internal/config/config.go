// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Timezone is the IANA zone HH:MM departure and arrival times are read in.
	Timezone string

	// MaxBodyBytes caps write request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRPS and RateLimitBurst size the per-IP token bucket on writes.
	RateLimitRPS   float64
	RateLimitBurst int
}

// ConsoleConfig holds the configuration of the checkout console.
type ConsoleConfig struct {
	// APIURL is the base URL of the store API.
	APIURL string

	// LookupTimeout bounds the in-progress read of each attempt.
	LookupTimeout time.Duration

	// SubmitTimeout bounds each write.
	SubmitTimeout time.Duration

	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or
// naming every variable that does not parse.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var p parser
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Timezone:       getEnv("TIMEZONE", "America/Sao_Paulo"),
		MaxBodyBytes:   p.int64("MAX_BODY_BYTES", 1<<20),
		RateLimitRPS:   p.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst: p.int("RATE_LIMIT_BURST", 10),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if err := p.err(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConsole reads the console configuration. Every value has a default.
func LoadConsole() (ConsoleConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ConsoleConfig{}, err
	}

	var p parser
	cfg := ConsoleConfig{
		APIURL:        getEnv("FROTALOG_API_URL", "http://localhost:8080"),
		LookupTimeout: p.duration("LOOKUP_TIMEOUT", 5*time.Second),
		SubmitTimeout: p.duration("SUBMIT_TIMEOUT", 5*time.Second),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	if err := p.err(); err != nil {
		return ConsoleConfig{}, err
	}
	return cfg, nil
}

// loadDotEnv loads ./.env when it exists. Variables already set in the
// environment win.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: loading .env: %w", err)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parser reads typed variables and remembers the names that failed.
type parser struct {
	invalid []string
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) int64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) err() error {
	if len(p.invalid) == 0 {
		return nil
	}
	return fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
}
