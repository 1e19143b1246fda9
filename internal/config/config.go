package config

import (
	"fmt"
	"os"
	"strconv"
)

// Supported values for DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the configuration for the application.
type Config struct {
	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string
	MetricsDBPath  string

	// Auth Config
	AuthJWTSecret   string
	AuthAccessToken string

	// Coordinator Config
	KeepEmptyLists    bool
	UpdateConcurrency int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/shopping.db"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if driver == DriverPostgres && databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	metricsDBPath := os.Getenv("METRICS_DB_PATH")
	if metricsDBPath == "" {
		metricsDBPath = "data/metrics.db"
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET environment variable not set")
	}

	// Optional: without a token every list operation fails as not authenticated.
	accessToken := os.Getenv("AUTH_ACCESS_TOKEN")

	var keepEmptyLists bool
	if v := os.Getenv("KEEP_EMPTY_LISTS"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KEEP_EMPTY_LISTS %q: %w", v, err)
		}
		keepEmptyLists = parsed
	}

	updateConcurrency := 1
	if v := os.Getenv("UPDATE_CONCURRENCY"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid UPDATE_CONCURRENCY %q: must be a positive integer", v)
		}
		updateConcurrency = parsed
	}

	return &Config{
		DatabaseDriver:    driver,
		DatabasePath:      databasePath,
		DatabaseURL:       databaseURL,
		MetricsDBPath:     metricsDBPath,
		AuthJWTSecret:     jwtSecret,
		AuthAccessToken:   accessToken,
		KeepEmptyLists:    keepEmptyLists,
		UpdateConcurrency: updateConcurrency,
	}, nil
}
