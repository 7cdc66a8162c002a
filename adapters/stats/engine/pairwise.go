package engine

import (
	"sigplot/adapters/stats/hypothesis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

// groupSamples is one group's input, aligned by category position.
type groupSamples struct {
	group      observation.Label
	categories []observation.Label
	samples    [][]float64
	means      []float64
	alpha      float64
}

type planOutcome struct {
	comparisons []significance.Comparison
	omnibus     *significance.Omnibus
}

// testPlan is the test strategy chosen once per group.
type testPlan interface {
	kind() significance.PlanKind
	run(in groupSamples) (planOutcome, error)
}

// selectPlan maps the strategy and category count onto a plan.
func selectPlan(strategy significance.Strategy, categories int) testPlan {
	switch strategy.SelectPlan(categories) {
	case significance.PlanPaired:
		return pairedPlan{}
	case significance.PlanOmnibusPostHoc:
		return omnibusPlan{}
	default:
		return noTestPlan{}
	}
}

// noTestPlan covers groups with fewer than two categories.
type noTestPlan struct{}

func (noTestPlan) kind() significance.PlanKind { return significance.PlanNone }

func (noTestPlan) run(groupSamples) (planOutcome, error) { return planOutcome{}, nil }

// pairedPlan runs a paired t-test on two index-aligned categories.
type pairedPlan struct{}

func (pairedPlan) kind() significance.PlanKind { return significance.PlanPaired }

func (pairedPlan) run(in groupSamples) (planOutcome, error) {
	a, b := in.samples[0], in.samples[1]
	if len(a) != len(b) {
		return planOutcome{}, core.NewShapeMismatchError(in.group.String(), len(a), len(b))
	}
	for i, s := range in.samples {
		if len(s) < 2 {
			return planOutcome{}, core.NewInsufficientDataError(in.group.String(), in.categories[i].String(), len(s), 2)
		}
	}

	res, err := hypothesis.PairedT(a, b)
	if err != nil {
		return planOutcome{}, err
	}

	diff := in.means[0] - in.means[1]
	c := significance.Comparison{
		Group:     in.group,
		A:         in.categories[0],
		B:         in.categories[1],
		Statistic: res.Statistic,
		PValue:    res.PValue,
		MeanDiff:  diff,
		Direction: significance.Direction(diff),
		Reject:    res.PValue < in.alpha,
	}
	return planOutcome{comparisons: []significance.Comparison{c}}, nil
}

// omnibusPlan runs a one-way ANOVA for diagnostics and Tukey HSD for the
// pairwise p-values that populate the matrix.
type omnibusPlan struct{}

func (omnibusPlan) kind() significance.PlanKind { return significance.PlanOmnibusPostHoc }

func (omnibusPlan) run(in groupSamples) (planOutcome, error) {
	total := 0
	for _, s := range in.samples {
		total += len(s)
	}
	if k := len(in.samples); total <= k {
		return planOutcome{}, core.NewInsufficientDataError(in.group.String(), "*", total, k+1)
	}

	anova, err := hypothesis.OneWayANOVA(in.samples)
	if err != nil {
		return planOutcome{}, err
	}

	pairs, err := hypothesis.TukeyHSD(in.samples, in.alpha)
	if err != nil {
		return planOutcome{}, err
	}

	comps := make([]significance.Comparison, 0, len(pairs))
	for _, p := range pairs {
		dir := significance.Direction(p.MeanDiff)
		comps = append(comps, significance.Comparison{
			Group:     in.group,
			A:         in.categories[p.I],
			B:         in.categories[p.J],
			Statistic: float64(dir) * p.Q,
			PValue:    p.PAdj,
			MeanDiff:  p.MeanDiff,
			Direction: dir,
			Lower:     p.Lower,
			Upper:     p.Upper,
			Reject:    p.Reject,
		})
	}

	return planOutcome{
		comparisons: comps,
		omnibus: &significance.Omnibus{
			FStatistic: anova.F,
			PValue:     anova.PValue,
			DFBetween:  anova.DFBetween,
			DFWithin:   anova.DFWithin,
		},
	}, nil
}
