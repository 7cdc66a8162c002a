package ports

import (
	"context"

	"sigplot/domain/analysis"
	"sigplot/domain/core"
)

// AnalysisRepository stores significance analyses.
type AnalysisRepository interface {
	Save(ctx context.Context, rec *analysis.Record) error
	// Get returns an error wrapping core.ErrNotFound when id is unknown.
	Get(ctx context.Context, id core.AnalysisID) (*analysis.Record, error)
	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]*analysis.Record, error)
}
