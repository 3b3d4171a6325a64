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

// Config holds the client configuration.
type Config struct {
	// APIURL is the REST backend base URL, including the /api prefix.
	APIURL string
	// DBPath is the local session store. Empty means the OS default path.
	DBPath string
	// GeocodeURL is the Nominatim-compatible search host.
	GeocodeURL  string
	HTTPTimeout time.Duration

	Redis RedisConfig

	// UploadPolicy is "all-or-nothing" or "best-effort".
	UploadPolicy string
	// PlacePolicy is "drop-blank" or "drop-empty".
	PlacePolicy string
}

// RedisConfig enables the cross-process session broadcast when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
}

const (
	DefaultAPIURL     = "http://localhost:5000/api"
	DefaultGeocodeURL = "https://nominatim.openstreetmap.org"
)

// Load reads .env files (if any) and then the environment.
// Files are applied in order; a variable already set in the environment is never overridden.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file '%s': %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:      getEnv("JOURNEY_API_URL", DefaultAPIURL),
		DBPath:      getEnv("JOURNEY_DB", ""),
		GeocodeURL:  getEnv("JOURNEY_GEOCODE_URL", DefaultGeocodeURL),
		HTTPTimeout: getDurationEnv("JOURNEY_HTTP_TIMEOUT", 30*time.Second),
		Redis: RedisConfig{
			Addr:     getEnv("JOURNEY_REDIS_ADDR", ""),
			Password: getEnv("JOURNEY_REDIS_PASSWORD", ""),
		},
		UploadPolicy: getEnv("JOURNEY_UPLOAD_POLICY", "all-or-nothing"),
		PlacePolicy:  getEnv("JOURNEY_PLACE_POLICY", "drop-blank"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("JOURNEY_API_URL is required")
	}
	switch c.UploadPolicy {
	case "all-or-nothing", "best-effort":
	default:
		return fmt.Errorf("JOURNEY_UPLOAD_POLICY must be all-or-nothing or best-effort, got '%s'", c.UploadPolicy)
	}
	switch c.PlacePolicy {
	case "drop-blank", "drop-empty":
	default:
		return fmt.Errorf("JOURNEY_PLACE_POLICY must be drop-blank or drop-empty, got '%s'", c.PlacePolicy)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("JOURNEY_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// bare seconds
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
