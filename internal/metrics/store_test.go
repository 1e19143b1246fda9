package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"recipe-shopping/internal/database"
	"recipe-shopping/internal/shopping"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.MigrationSQL("sqlite/000002_create_operation_metrics.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	store := NewStore(db)
	store.now = func() time.Time { return now }
	return store
}

func TestStoreDailySummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	records := []OperationMetric{
		{Operation: "add_ingredients", Outcome: OutcomeOK, LatencyMS: 10, Timestamp: now.Add(-time.Hour)},
		{Operation: "add_ingredients", Outcome: OutcomeRemoteError, LatencyMS: 30, Timestamp: now.Add(-2 * time.Hour)},
		{Operation: "toggle_item", Outcome: OutcomeOK, LatencyMS: 5, Timestamp: now.Add(-3 * time.Hour)},
		{Operation: "toggle_item", Outcome: OutcomeOK, LatencyMS: 7, Timestamp: now.AddDate(0, 0, -1)},
		{Operation: "toggle_item", Outcome: OutcomeOK, LatencyMS: 9, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, m := range records {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	summary, err := store.GetDailySummary(ctx, 7)
	if err != nil {
		t.Fatalf("GetDailySummary failed: %v", err)
	}

	want := []DailySummary{
		{Date: "2026-03-10", Operation: "add_ingredients", Total: 2, Failures: 1, AvgLatencyMS: 20},
		{Date: "2026-03-10", Operation: "toggle_item", Total: 1, Failures: 0, AvgLatencyMS: 5},
		{Date: "2026-03-09", Operation: "toggle_item", Total: 1, Failures: 0, AvgLatencyMS: 7},
	}
	if len(summary) != len(want) {
		t.Fatalf("Expected %d summary rows, got %d: %+v", len(want), len(summary), summary)
	}
	for i := range want {
		if summary[i] != want[i] {
			t.Errorf("Row %d: expected %+v, got %+v", i, want[i], summary[i])
		}
	}
}

func TestStoreCleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, now)

	for i, age := range []int{1, 5, 31, 60} {
		m := OperationMetric{
			Operation: fmt.Sprintf("op-%d", i),
			Outcome:   OutcomeOK,
			Timestamp: now.AddDate(0, 0, -age),
		}
		if err := store.Record(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed records, got %d", removed)
	}

	summary, err := store.GetDailySummary(ctx, 365)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 {
		t.Errorf("Expected 2 remaining days, got %d", len(summary))
	}
}

func TestRecordOperation(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	store := newTestStore(t, now)

	store.RecordOperation("delete_list", 1500*time.Millisecond, fmt.Errorf("%w: boom", shopping.ErrRemoteUnavailable))

	summary, err := store.GetDailySummary(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 {
		t.Fatalf("Expected 1 summary row, got %d", len(summary))
	}
	if summary[0].Failures != 1 || summary[0].AvgLatencyMS != 1500 {
		t.Errorf("Unexpected summary: %+v", summary[0])
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{&shopping.ValidationError{Field: "name", Reason: "must not be empty"}, OutcomeValidation},
		{&shopping.OperationError{Op: "fetch_lists", Err: shopping.ErrNotAuthenticated}, OutcomeNotAuthenticated},
		{shopping.ErrListNotFound, OutcomeNotFound},
		{fmt.Errorf("wrapped: %w", shopping.ErrItemNotFound), OutcomeNotFound},
		{errors.New("connection reset"), OutcomeRemoteError},
	}

	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
