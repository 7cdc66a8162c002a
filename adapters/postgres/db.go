package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sigplot/internal/migration"
)

// Open connects to url, sizes the pool and applies the schema. With reset
// set, existing tables are dropped first.
func Open(ctx context.Context, url string, maxOpen int, maxLifetime time.Duration, reset bool) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(maxLifetime)

	runner := migration.NewRunner()
	if reset {
		if err := runner.Reset(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := runner.Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
