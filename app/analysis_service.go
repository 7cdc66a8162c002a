package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"sigplot/domain/analysis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
	"sigplot/internal/chart"
	"sigplot/internal/errors"
	"sigplot/ports"
)

// SignificanceBuilder computes per-group matrices.
type SignificanceBuilder interface {
	Build(set *observation.Set, strategy significance.Strategy) (*significance.Result, error)
}

// ChartKind selects the plan produced alongside the matrices.
type ChartKind string

const (
	ChartNone ChartKind = ""
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// ParseChartKind accepts "", "none", "bar" and "line".
func ParseChartKind(s string) (ChartKind, error) {
	switch s {
	case "", "none":
		return ChartNone, nil
	case "bar":
		return ChartBar, nil
	case "line":
		return ChartLine, nil
	default:
		return "", core.NewConfigurationError("chart", fmt.Sprintf("unknown chart kind %q", s))
	}
}

// AnalysisRequest is one analysis: observations, strategy and an optional
// chart. Nil chart configs use the defaults. Counts already present in a
// chart config win over counts derived from the matrices.
type AnalysisRequest struct {
	Observations *observation.Set
	Strategy     significance.Strategy
	Chart        ChartKind
	Bar          *chart.BarConfig
	Line         *chart.LineConfig
	// Baseline is the category line-chart symbols compare against. Empty
	// means no line symbols unless Line.Counts is set.
	Baseline observation.Label
}

// AnalysisResponse carries the result and whichever plan was requested.
type AnalysisResponse struct {
	ID       core.AnalysisID      `json:"id,omitempty"`
	Result   *significance.Result `json:"result"`
	BarPlan  *chart.BarPlan       `json:"bar_plan,omitempty"`
	LinePlan *chart.LinePlan      `json:"line_plan,omitempty"`
}

// AnalysisService orchestrates matrix building, chart planning and storage.
type AnalysisService struct {
	builder     SignificanceBuilder
	repo        ports.AnalysisRepository
	logger      *log.Logger
	maxParallel int
	strategy    significance.Strategy
}

// ServiceOption configures an AnalysisService.
type ServiceOption func(*AnalysisService)

// WithRepository persists every successful analysis.
func WithRepository(repo ports.AnalysisRepository) ServiceOption {
	return func(s *AnalysisService) { s.repo = repo }
}

func WithServiceLogger(l *log.Logger) ServiceOption {
	return func(s *AnalysisService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultStrategy is used for requests that leave Strategy empty.
func WithDefaultStrategy(st significance.Strategy) ServiceOption {
	return func(s *AnalysisService) { s.strategy = st }
}

// WithMaxParallel bounds how many batch requests run at once.
func WithMaxParallel(n int) ServiceOption {
	return func(s *AnalysisService) { s.maxParallel = n }
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(builder SignificanceBuilder, opts ...ServiceOption) *AnalysisService {
	s := &AnalysisService{
		builder:     builder,
		logger:      log.New(io.Discard),
		maxParallel: 4,
		strategy:    significance.OneWay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persistent reports whether analyses are stored.
func (s *AnalysisService) Persistent() bool { return s.repo != nil }

// Analyze runs one request. Any failure aborts the whole request; no partial
// result is returned.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	if req.Observations == nil || len(req.Observations.Groups()) == 0 {
		return nil, errors.InvalidInput("no observations")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateChart(req); err != nil {
		return nil, errors.Wrap(err, "chart configuration invalid")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.strategy
	}
	result, err := s.builder.Build(req.Observations, strategy)
	if err != nil {
		return nil, errors.Wrap(err, "significance build failed")
	}
	resp := &AnalysisResponse{Result: result}

	switch req.Chart {
	case ChartBar:
		if resp.BarPlan, err = s.barPlan(req, result); err != nil {
			return nil, errors.Wrap(err, "bar plan failed")
		}
	case ChartLine:
		if resp.LinePlan, err = s.linePlan(req, result); err != nil {
			return nil, errors.Wrap(err, "line plan failed")
		}
	case ChartNone:
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown chart kind %q", req.Chart))
	}

	if s.repo != nil {
		rec, err := analysis.NewRecord(req.Observations, result)
		if err != nil {
			return nil, errors.Wrap(err, "analysis record failed")
		}
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, errors.DatabaseError("failed to save analysis", err)
		}
		resp.ID = rec.ID
	}

	s.logger.Debug("analysis done", "id", resp.ID, "groups", len(result.Groups), "chart", req.Chart)
	return resp, nil
}

// validateChart checks the requested chart against the observation
// dimensions before any test runs. Counts derived from the matrices are
// checked later, when the plan is built.
func validateChart(req AnalysisRequest) error {
	set := req.Observations
	groups, categories := len(set.Groups()), len(set.Categories())
	switch req.Chart {
	case ChartBar:
		return barConfig(req).Validate(groups, categories)
	case ChartLine:
		if req.Baseline != "" {
			if _, ok := set.CategoryIndex().Position(req.Baseline); !ok {
				return core.NewConfigurationError("baseline", fmt.Sprintf("unknown category %q", req.Baseline))
			}
		}
		return lineConfig(req).Validate(groups, categories)
	}
	return nil
}

func barConfig(req AnalysisRequest) chart.BarConfig {
	if req.Bar != nil {
		return *req.Bar
	}
	return chart.DefaultBarConfig()
}

func lineConfig(req AnalysisRequest) chart.LineConfig {
	if req.Line != nil {
		return *req.Line
	}
	return chart.DefaultLineConfig()
}

func (s *AnalysisService) barPlan(req AnalysisRequest, result *significance.Result) (*chart.BarPlan, error) {
	cfg := barConfig(req)
	if cfg.Counts == nil {
		counts, err := chart.CountsFromResult(req.Observations, result)
		if err != nil {
			return nil, err
		}
		cfg.Counts = counts
	}
	return chart.BuildBarPlan(req.Observations, cfg)
}

func (s *AnalysisService) linePlan(req AnalysisRequest, result *significance.Result) (*chart.LinePlan, error) {
	cfg := lineConfig(req)
	if cfg.Counts == nil && req.Baseline != "" {
		counts, err := chart.BaselineCounts(req.Observations, result, req.Baseline)
		if err != nil {
			return nil, err
		}
		cfg.Counts = counts
	}
	return chart.BuildLinePlan(req.Observations, cfg)
}

// AnalyzeBatch runs independent requests concurrently. Responses keep request
// order; the first failure cancels the rest and is returned.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []AnalysisRequest) ([]*AnalysisResponse, error) {
	out := make([]*AnalysisResponse, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	if s.maxParallel > 0 {
		eg.SetLimit(s.maxParallel)
	}
	for i, req := range reqs {
		eg.Go(func() error {
			resp, err := s.Analyze(egCtx, req)
			if err != nil {
				return errors.Wrapf(err, "request %d", i)
			}
			out[i] = resp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	s.logger.Info("batch done", "requests", len(reqs))
	return out, nil
}

// Get loads a stored analysis.
func (s *AnalysisService) Get(ctx context.Context, id core.AnalysisID) (*analysis.Record, error) {
	if s.repo == nil {
		return nil, errors.NotFound("analysis " + id.String())
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis")
	}
	return rec, nil
}

// List returns stored analyses newest first; empty without a repository.
func (s *AnalysisService) List(ctx context.Context, limit, offset int) ([]*analysis.Record, error) {
	if s.repo == nil {
		return []*analysis.Record{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	recs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError("failed to list analyses", err)
	}
	return recs, nil
}
