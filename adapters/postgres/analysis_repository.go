package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sigplot/domain/analysis"
	"sigplot/domain/core"
	"sigplot/domain/significance"
	"sigplot/ports"
)

// analysisRepository implements the AnalysisRepository interface
type analysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &analysisRepository{db: db}
}

type analysisRow struct {
	ID          string    `db:"id"`
	Strategy    string    `db:"strategy"`
	Fingerprint string    `db:"fingerprint"`
	GroupCount  int       `db:"group_count"`
	Result      []byte    `db:"result"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row analysisRow) record() (*analysis.Record, error) {
	var result significance.Result
	if err := json.Unmarshal(row.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result of analysis %s: %w", row.ID, err)
	}
	return &analysis.Record{
		ID:          core.AnalysisID(row.ID),
		Strategy:    significance.Strategy(row.Strategy),
		Fingerprint: core.Hash(row.Fingerprint),
		Groups:      row.GroupCount,
		Result:      &result,
		CreatedAt:   core.NewTimestamp(row.CreatedAt.UTC()),
	}, nil
}

// Save inserts a record; saving the same id twice is a conflict
func (r *analysisRepository) Save(ctx context.Context, rec *analysis.Record) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `INSERT INTO analyses (id, strategy, fingerprint, group_count, result, created_at)
		VALUES (:id, :strategy, :fingerprint, :group_count, :result, :created_at)`

	_, err = r.db.NamedExecContext(ctx, query, analysisRow{
		ID:          rec.ID.String(),
		Strategy:    string(rec.Strategy),
		Fingerprint: rec.Fingerprint.String(),
		GroupCount:  rec.Groups,
		Result:      resultJSON,
		CreatedAt:   rec.CreatedAt.Time(),
	})
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Get retrieves an analysis by its ID
func (r *analysisRepository) Get(ctx context.Context, id core.AnalysisID) (*analysis.Record, error) {
	query := `SELECT id, strategy, fingerprint, group_count, result, created_at
	FROM analyses WHERE id = $1`

	var row analysisRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("analysis", id.String())
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return row.record()
}

// List retrieves analyses newest first with pagination
func (r *analysisRepository) List(ctx context.Context, limit, offset int) ([]*analysis.Record, error) {
	query := `SELECT id, strategy, fingerprint, group_count, result, created_at
	FROM analyses
	ORDER BY created_at DESC, id DESC
	LIMIT $1 OFFSET $2`

	var rows []analysisRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	records := make([]*analysis.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
