package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to reset every variable the loader reads
	clearEnv := func() {
		t.Helper()
		for _, key := range []string{
			"DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL", "METRICS_DB_PATH",
			"AUTH_JWT_SECRET", "AUTH_ACCESS_TOKEN", "KEEP_EMPTY_LISTS", "UPDATE_CONCURRENCY",
		} {
			t.Setenv(key, "")
		}
	}

	t.Run("Defaults", func(t *testing.T) {
		clearEnv()
		t.Setenv("AUTH_JWT_SECRET", "secret")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabaseDriver != DriverSQLite {
			t.Errorf("Expected DatabaseDriver to be '%s', got '%s'", DriverSQLite, cfg.DatabaseDriver)
		}
		if cfg.DatabasePath != "data/shopping.db" {
			t.Errorf("Expected DatabasePath to be 'data/shopping.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.MetricsDBPath != "data/metrics.db" {
			t.Errorf("Expected MetricsDBPath to be 'data/metrics.db', got '%s'", cfg.MetricsDBPath)
		}
		if cfg.KeepEmptyLists {
			t.Error("Expected KeepEmptyLists to default to false")
		}
		if cfg.UpdateConcurrency != 1 {
			t.Errorf("Expected UpdateConcurrency to be 1, got %d", cfg.UpdateConcurrency)
		}
		if cfg.AuthAccessToken != "" {
			t.Errorf("Expected empty AuthAccessToken, got '%s'", cfg.AuthAccessToken)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv()
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("AUTH_ACCESS_TOKEN", "token")
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "postgres://app@localhost:5432/shopping")
		t.Setenv("KEEP_EMPTY_LISTS", "true")
		t.Setenv("UPDATE_CONCURRENCY", "4")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabaseDriver != DriverPostgres {
			t.Errorf("Expected DatabaseDriver to be '%s', got '%s'", DriverPostgres, cfg.DatabaseDriver)
		}
		if cfg.DatabaseURL != "postgres://app@localhost:5432/shopping" {
			t.Errorf("Unexpected DatabaseURL '%s'", cfg.DatabaseURL)
		}
		if cfg.AuthAccessToken != "token" {
			t.Errorf("Expected AuthAccessToken to be 'token', got '%s'", cfg.AuthAccessToken)
		}
		if !cfg.KeepEmptyLists {
			t.Error("Expected KeepEmptyLists to be true")
		}
		if cfg.UpdateConcurrency != 4 {
			t.Errorf("Expected UpdateConcurrency to be 4, got %d", cfg.UpdateConcurrency)
		}
	})

	t.Run("MissingJWTSecret", func(t *testing.T) {
		clearEnv()

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing AUTH_JWT_SECRET, got nil")
		}
		expectedError := "AUTH_JWT_SECRET environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingDatabaseURLForPostgres", func(t *testing.T) {
		clearEnv()
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("DATABASE_DRIVER", "postgres")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing DATABASE_URL, got nil")
		}
		expectedError := "DATABASE_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		clearEnv()
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("DATABASE_DRIVER", "mysql")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unsupported driver, got nil")
		}
	})

	t.Run("InvalidConcurrency", func(t *testing.T) {
		clearEnv()
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("UPDATE_CONCURRENCY", "0")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for UPDATE_CONCURRENCY=0, got nil")
		}
	})
}
