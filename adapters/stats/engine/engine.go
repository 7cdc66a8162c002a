package engine

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"sigplot/adapters/stats/hypothesis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

// DefaultAlpha is the family-wise alpha for post-hoc confidence intervals.
const DefaultAlpha = 0.05

// StatsEngine builds per-group significance matrices from an observation set.
type StatsEngine struct {
	thresholds significance.Thresholds
	alpha      float64
	logger     *log.Logger
}

// Option configures a StatsEngine.
type Option func(*StatsEngine)

// WithThresholds replaces the default p-value cut points.
func WithThresholds(t significance.Thresholds) Option {
	return func(e *StatsEngine) { e.thresholds = t }
}

// WithAlpha sets the post-hoc family alpha used for intervals and Reject.
func WithAlpha(alpha float64) Option {
	return func(e *StatsEngine) { e.alpha = alpha }
}

func WithLogger(l *log.Logger) Option {
	return func(e *StatsEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(opts ...Option) *StatsEngine {
	e := &StatsEngine{
		thresholds: significance.DefaultThresholds(),
		alpha:      DefaultAlpha,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the cut points the engine maps p-values with.
func (e *StatsEngine) Thresholds() significance.Thresholds { return e.thresholds }

// Build runs the selected test plan for every group and reduces the results
// into directional significance matrices. Groups and categories keep their
// first-seen order. Any failure aborts the whole call; there are no partial
// results.
func (e *StatsEngine) Build(set *observation.Set, strategy significance.Strategy) (*significance.Result, error) {
	if err := e.validate(set, strategy); err != nil {
		return nil, err
	}

	groups := set.Groups()
	result := &significance.Result{
		Strategy:   strategy,
		Thresholds: e.thresholds,
		Groups:     make([]significance.GroupResult, 0, len(groups)),
	}

	for _, g := range groups {
		gr, err := e.buildGroup(set, g, strategy)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g, err)
		}
		result.Groups = append(result.Groups, *gr)
	}

	e.logger.Debug("significance built", "groups", len(result.Groups), "strategy", strategy)
	return result, nil
}

// validate runs every eager check before any test executes.
func (e *StatsEngine) validate(set *observation.Set, strategy significance.Strategy) error {
	if strategy != significance.OneWay && strategy != significance.TwoWay {
		return core.NewConfigurationError("strategy", fmt.Sprintf("unknown strategy %q", strategy))
	}
	if err := e.thresholds.Validate(); err != nil {
		return err
	}
	if !(e.alpha > 0 && e.alpha < 1) {
		return core.NewConfigurationError("alpha", "must be in (0, 1)")
	}
	if set == nil {
		return fmt.Errorf("%w: no observations", core.ErrInsufficientData)
	}

	for _, g := range set.Groups() {
		for _, c := range set.GroupCategories(g) {
			values := set.Values(g, c)
			if len(values) == 0 {
				return core.NewInsufficientDataError(g.String(), c.String(), 0, 1)
			}
			for i, v := range values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return core.NewNonFiniteValueError(g.String(), c.String(), i, v)
				}
			}
		}
	}
	return nil
}

func (e *StatsEngine) buildGroup(set *observation.Set, group observation.Label, strategy significance.Strategy) (*significance.GroupResult, error) {
	in := groupSamples{
		group:      group,
		categories: set.GroupCategories(group),
		alpha:      e.alpha,
	}
	in.samples = make([][]float64, len(in.categories))
	in.means = make([]float64, len(in.categories))
	for i, c := range in.categories {
		in.samples[i] = set.Values(group, c)
		sum, err := hypothesis.Summarize(in.samples[i])
		if err != nil {
			return nil, err
		}
		in.means[i] = sum.Mean
	}

	plan := selectPlan(strategy, len(in.categories))
	e.logger.Debug("group plan", "group", group, "plan", plan.kind(), "categories", len(in.categories))

	out, err := plan.run(in)
	if err != nil {
		return nil, err
	}

	matrix, err := reduce(in, out.comparisons, e.thresholds)
	if err != nil {
		return nil, err
	}

	return &significance.GroupResult{
		Group:       group,
		Categories:  in.categories,
		Means:       in.means,
		Plan:        plan.kind(),
		Matrix:      matrix,
		Comparisons: out.comparisons,
		Omnibus:     out.omnibus,
	}, nil
}
