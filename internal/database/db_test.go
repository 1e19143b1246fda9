package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "shopping.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"shopping_lists", "shopping_list_items", "operation_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table '%s' to exist, got error: %v", table, err)
		}
	}

	t.Run("Reopen", func(t *testing.T) {
		// A second open must treat the already-applied migrations as no change
		again, err := NewDB(dbPath)
		if err != nil {
			t.Fatalf("Reopening database failed: %v", err)
		}
		again.Close()
	})
}

func TestMigrationSQL(t *testing.T) {
	stmt, err := MigrationSQL("sqlite/000001_create_shopping_lists.up.sql")
	if err != nil {
		t.Fatalf("MigrationSQL failed: %v", err)
	}
	if !strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS shopping_list_items") {
		t.Errorf("Expected items table DDL, got: %s", stmt)
	}

	if _, err := MigrationSQL("sqlite/missing.sql"); err == nil {
		t.Error("Expected an error for a missing migration, got nil")
	}
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://app:pw@db.example.com:5432/shopping?sslmode=require", "pgx5://app:pw@db.example.com:5432/shopping?sslmode=require"},
		{"postgresql://app@localhost/shopping", "pgx5://app@localhost/shopping"},
		{"pgx5://app@localhost/shopping", "pgx5://app@localhost/shopping"},
	}
	for _, tt := range tests {
		if got := migrateURL(tt.in); got != tt.want {
			t.Errorf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
