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

// Config holds all configuration values for the planner server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string of the remote store. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// LocalDBPath is the SQLite file holding the device-local snapshot and
	// photo blobs. Defaults to "planner.db".
	LocalDBPath string

	// JWTSecret is the HS256 key used to verify sign-in tokens. Required.
	JWTSecret string

	// WeatherBaseURL and GeocodingBaseURL point at the Open-Meteo compatible
	// forecast and geocoding endpoints.
	WeatherBaseURL   string
	GeocodingBaseURL string

	// WeatherFreshness is how long a cached forecast is reused. Defaults to 4h.
	WeatherFreshness time.Duration

	// WeatherTimeout bounds one forecast or geocoding request. Defaults to 15s.
	WeatherTimeout time.Duration

	// MaxUploadBytes caps request bodies, photo uploads included. Defaults to 10 MiB.
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is applied first when present; it
// never overrides variables already set in the environment.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LocalDBPath:      getEnv("LOCAL_DB_PATH", "planner.db"),
		WeatherBaseURL:   getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com"),
		GeocodingBaseURL: getEnv("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com"),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}

	freshness, err := time.ParseDuration(getEnv("WEATHER_FRESHNESS", "4h"))
	if err != nil || freshness <= 0 {
		invalid = append(invalid, "WEATHER_FRESHNESS")
	}
	cfg.WeatherFreshness = freshness

	weatherTimeout, err := time.ParseDuration(getEnv("WEATHER_TIMEOUT", "15s"))
	if err != nil || weatherTimeout <= 0 {
		invalid = append(invalid, "WEATHER_TIMEOUT")
	}
	cfg.WeatherTimeout = weatherTimeout

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		invalid = append(invalid, "MAX_UPLOAD_BYTES")
	}
	cfg.MaxUploadBytes = maxUpload

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
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
