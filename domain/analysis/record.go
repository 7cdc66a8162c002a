// Package analysis holds the stored form of a significance analysis.
package analysis

import (
	"fmt"

	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

// Record is one persisted analysis: the input fingerprint and the full
// per-group result.
type Record struct {
	ID          core.AnalysisID       `json:"id"`
	Strategy    significance.Strategy `json:"strategy"`
	Fingerprint core.Hash             `json:"fingerprint"`
	Groups      int                   `json:"groups"`
	Result      *significance.Result  `json:"result"`
	CreatedAt   core.Timestamp        `json:"created_at"`
}

// NewRecord stamps a result with a fresh id and the fingerprint of the
// observations it was computed from.
func NewRecord(set *observation.Set, result *significance.Result) (*Record, error) {
	if set == nil || result == nil {
		return nil, fmt.Errorf("analysis record needs observations and a result")
	}
	fp, err := core.Fingerprint(set.Series())
	if err != nil {
		return nil, fmt.Errorf("fingerprint observations: %w", err)
	}
	return &Record{
		ID:          core.NewAnalysisID(),
		Strategy:    result.Strategy,
		Fingerprint: fp,
		Groups:      len(result.Groups),
		Result:      result,
		CreatedAt:   core.Now(),
	}, nil
}
