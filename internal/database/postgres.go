package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to the hosted Postgres backing the remote store and
// applies the postgres migrations first.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if err := RunPostgresMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("Postgres database connected (pgx)")
	return pool, nil
}

// RunPostgresMigrations applies the postgres migrations through the
// golang-migrate pgx/v5 driver.
func RunPostgresMigrations(databaseURL string) error {
	return runMigrations("migrations/postgres", migrateURL(databaseURL))
}

// migrateURL rewrites a postgres connection string to the pgx5:// scheme the
// golang-migrate driver registers under.
func migrateURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}
