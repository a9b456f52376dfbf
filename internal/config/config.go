// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present (local development); real environment variables always
// win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

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
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ImageAPIURL is the base URL of the image store admin API. Required.
	ImageAPIURL string

	// ImageAPIKey authenticates against the image store. May be empty for
	// a local stub store.
	ImageAPIKey string

	// ImageRatePerSecond bounds outbound image store requests. Defaults
	// to 5; 0 disables limiting.
	ImageRatePerSecond float64

	// TempSection is the image namespace prefix for not-yet-committed
	// uploads. Defaults to "tempsection".
	TempSection string

	// AssetRoot is the internal CDN prefix stripped from permanent image
	// references. May be empty.
	AssetRoot string

	// OperatorID identifies this editor instance in updated_by audit
	// columns. Defaults to "editor".
	OperatorID string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),
		TempSection: getEnv("TEMP_SECTION", "tempsection"),
		AssetRoot:   os.Getenv("ASSET_ROOT"),
		OperatorID:  getEnv("OPERATOR_ID", "editor"),
	}

	cfg.ImageRatePerSecond = 5
	if v := os.Getenv("IMAGE_RATE_PER_SECOND"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("invalid IMAGE_RATE_PER_SECOND %q", v)
		}
		cfg.ImageRatePerSecond = parsed
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.ImageAPIURL = os.Getenv("IMAGE_API_URL")
	if cfg.ImageAPIURL == "" {
		missing = append(missing, "IMAGE_API_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
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
