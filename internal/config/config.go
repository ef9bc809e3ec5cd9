// Package config loads the service configuration from CLI flags and
// environment variables, validates required fields, and provides
// sensible defaults. Secrets come from the environment; a .env file is
// honored when present.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/waypost/waypost/internal/ratelimit"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ListenAddr string
	BaseURL    string
	StaticDir  string

	// Database
	DatabasePath string
	DatabaseKey  string // 64 hex characters (32 bytes), sqlcipher key
	Reset        bool   // drop and recreate the schema on startup

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Rate limiting for the login surface
	RateLimit ratelimit.Config
}

// ValidationError aggregates every configuration problem found.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags registers and parses the CLI flags. Call before Load.
func ParseFlags() (addr string, reset bool) {
	flag.StringVar(&addr, "addr", "", "Listen address (default :8080, overrides LISTEN_ADDR env var)")
	flag.BoolVar(&reset, "reset", false, "Drop and recreate the database schema on startup")
	flag.Parse()
	return addr, reset
}

// Load reads a .env file if one exists, then builds the configuration
// from environment variables and the parsed flag values.
func Load(addr string, reset bool) (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{Reset: reset}

	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", ":8080")
	if addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.BaseURL = strings.TrimSpace(os.Getenv("BASE_URL"))
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost" + cfg.ListenAddr
	}
	cfg.StaticDir = getEnvOrDefault("STATIC_DIR", "./static")

	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", "./waypost.db")
	cfg.DatabaseKey = os.Getenv("DATABASE_KEY")

	cfg.GoogleClientID = os.Getenv("GOOGLE_OAUTH_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET")
	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = cfg.BaseURL + "/auth/google/callback"
	}

	cfg.RateLimit = ratelimit.Config{
		RPS:             parseFloat64OrDefault("AUTH_RATE_LIMIT_RPS", ratelimit.DefaultConfig.RPS),
		Burst:           parseIntOrDefault("AUTH_RATE_LIMIT_BURST", ratelimit.DefaultConfig.Burst),
		CleanupInterval: parseDurationOrDefault("AUTH_RATE_LIMIT_CLEANUP_INTERVAL", ratelimit.DefaultConfig.CleanupInterval),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.GoogleClientID == "" {
		errs = append(errs, "GOOGLE_OAUTH_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		errs = append(errs, "GOOGLE_OAUTH_CLIENT_SECRET is required")
	}

	// Losing the key makes the database unreadable, so fail fast on a
	// missing or malformed one.
	if c.DatabaseKey == "" {
		errs = append(errs, "DATABASE_KEY is required (generate with: openssl rand -hex 32)")
	} else if len(c.DatabaseKey) != 64 || !isHex(c.DatabaseKey) {
		errs = append(errs, "DATABASE_KEY must be 64 hex characters (32 bytes)")
	}

	if c.RateLimit.RPS <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
