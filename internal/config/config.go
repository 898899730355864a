package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the server.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	ListingCacheTTL   time.Duration
	MigrationsEnabled bool
}

// Load reads server configuration from environment variables.
func Load() (*Config, error) {
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := getEnv("REDIS_URL", "")
	ttl := getEnvDuration("LISTING_CACHE_TTL", 30*time.Second)

	// Cached listings must expire.
	if redisURL != "" && ttl <= 0 {
		return nil, fmt.Errorf("LISTING_CACHE_TTL must be positive, got %s", ttl)
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		ListingCacheTTL:   ttl,
		MigrationsEnabled: getEnvBool("MIGRATIONS_ENABLED", true),
	}, nil
}

// CLIConfig holds configuration for the newsletter command.
type CLIConfig struct {
	APIURL      string
	ExportDir   string
	Location    *time.Location
	DatabaseURL string
	RedisURL    string
}

// LoadCLI reads command configuration. DatabaseURL is optional here; only
// the commands that talk to the database check it.
func LoadCLI() (*CLIConfig, error) {
	tz := getEnv("NEWSLETTER_TIMEZONE", "Europe/Paris")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid NEWSLETTER_TIMEZONE %q: %w", tz, err)
	}

	return &CLIConfig{
		APIURL:      getEnv("NEWSLETTER_API_URL", "http://localhost:8080"),
		ExportDir:   getEnv("NEWSLETTER_EXPORT_DIR", "."),
		Location:    loc,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts a Go duration ("45s") or a plain number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if n := getEnvInt(key, -1); n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
