package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	metricsdb "recipe-shopping/internal/metrics/metrics_db"
	"recipe-shopping/internal/shopping"
)

// Outcomes stored with each operation.
const (
	OutcomeOK               = "ok"
	OutcomeValidation       = "validation"
	OutcomeNotAuthenticated = "not_authenticated"
	OutcomeNotFound         = "not_found"
	OutcomeRemoteError      = "remote_error"
)

// OperationMetric records the outcome of a single shopping list operation.
type OperationMetric struct {
	Operation string
	Outcome   string
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m OperationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	err := s.queries.InsertOperationMetric(ctx, metricsdb.InsertOperationMetricParams{
		Operation: m.Operation,
		Outcome:   m.Outcome,
		LatencyMs: m.LatencyMS,
		Timestamp: ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record metric for %s: %w", m.Operation, err)
	}
	return nil
}

// RecordOperation stores the outcome of a coordinator operation. Failures to
// record are logged and otherwise ignored.
func (s *Store) RecordOperation(op string, latency time.Duration, err error) {
	m := OperationMetric{
		Operation: op,
		Outcome:   Outcome(err),
		LatencyMS: latency.Milliseconds(),
	}
	if rerr := s.Record(context.Background(), m); rerr != nil {
		slog.Warn("Failed to record operation metric",
			slog.String("op", op),
			slog.String("error", rerr.Error()),
		)
	}
}

// Outcome classifies an operation error.
func Outcome(err error) string {
	var verr *shopping.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeValidation
	case errors.Is(err, shopping.ErrNotAuthenticated):
		return OutcomeNotAuthenticated
	case errors.Is(err, shopping.ErrListNotFound), errors.Is(err, shopping.ErrItemNotFound):
		return OutcomeNotFound
	default:
		return OutcomeRemoteError
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DailySummary aggregates one operation's outcomes for a single day.
type DailySummary struct {
	Date         string
	Operation    string
	Total        int
	Failures     int
	AvgLatencyMS float64
}

// GetDailySummary retrieves per-operation summaries for the last N days,
// newest day first.
func (s *Store) GetDailySummary(ctx context.Context, days int) ([]DailySummary, error) {
	since := s.now().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailySummary(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}

	results := make([]DailySummary, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailySummary{
			Date:         r.Day,
			Operation:    r.Operation,
			Total:        int(r.Total),
			Failures:     int(r.Failures),
			AvgLatencyMS: r.AvgLatencyMs,
		})
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().AddDate(0, 0, -olderThanDays)
	n, err := s.queries.CleanupOperationMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return n, nil
}
