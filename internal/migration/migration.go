package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sigplot/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every statement is
// idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createAnalysesTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create analyses table", err)
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}
	return nil
}

func (r *MigrationRunner) createAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			strategy TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			group_count INTEGER NOT NULL DEFAULT 0,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_fingerprint ON analyses (fingerprint)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every table this runner creates.
func (r *MigrationRunner) Reset(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS analyses CASCADE`); err != nil {
		return errors.DatabaseError("failed to drop analyses", err)
	}
	return nil
}
