package engine

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

func referenceSet() *observation.Set {
	return observation.FromSeries([]observation.Series{
		{Group: "A", Category: "0", Values: []float64{6, 7}},
		{Group: "A", Category: "1", Values: []float64{9, 8, 10}},
		{Group: "A", Category: "2", Values: []float64{55, 10}},
		{Group: "B", Category: "0", Values: []float64{19, 18, 21}},
		{Group: "B", Category: "1", Values: []float64{24, 23}},
		{Group: "B", Category: "2", Values: []float64{29, 28, 30}},
	})
}

func TestBuild_ReferenceFigure(t *testing.T) {
	res, err := NewStatsEngine().Build(referenceSet(), significance.OneWay)
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	a, ok := res.Group("A")
	require.True(t, ok)
	assert.Equal(t, significance.PlanOmnibusPostHoc, a.Plan)
	require.Equal(t, 3, a.Matrix.Size())
	require.NoError(t, a.Matrix.CheckDirection())
	require.NotNil(t, a.Omnibus)
	assert.Equal(t, 2, a.Omnibus.DFBetween)
	assert.Len(t, a.Comparisons, 3)

	// mean(2) = 32.5 > mean(0) = 6.5, so only (2,0) may carry a level; with
	// the 55/10 spread Tukey-Kramer gives q ~ 2.31 on 4 df, which is not
	// significant.
	assert.Equal(t, significance.LevelNone, a.Matrix.At(0, 2))
	assert.Equal(t, significance.LevelNone, a.Matrix.At(2, 0))

	b, ok := res.Group("B")
	require.True(t, ok)
	require.NoError(t, b.Matrix.CheckDirection())
	assert.Equal(t, significance.LevelWeak, b.Matrix.At(1, 0))
	assert.GreaterOrEqual(t, b.Matrix.At(2, 0), significance.LevelModerate)
	assert.Greater(t, b.Matrix.At(2, 1), significance.LevelNone)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			assert.Equal(t, significance.LevelNone, b.Matrix.At(i, j), "upper cell (%d,%d)", i, j)
		}
	}
}

func TestBuild_PairedPath(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "pre", 6, 7)
	set.Add("G", "post", 8, 9)

	res, err := NewStatsEngine().Build(set, significance.OneWay)
	require.NoError(t, err)

	g := res.Groups[0]
	assert.Equal(t, significance.PlanPaired, g.Plan)
	assert.Nil(t, g.Omnibus)
	require.Len(t, g.Comparisons, 1)
	assert.Equal(t, observation.Label("pre"), g.Comparisons[0].A)
	assert.Equal(t, -1, g.Comparisons[0].Direction)

	// every difference is -2: p = 0, so "post > pre" is level 4
	assert.Equal(t, significance.LevelVeryStrong, g.Matrix.At(1, 0))
	assert.Equal(t, significance.LevelNone, g.Matrix.At(0, 1))
}

func TestBuild_PairedShapeMismatch(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "pre", 6, 7)
	set.Add("G", "post", 8, 9, 10)

	_, err := NewStatsEngine().Build(set, significance.OneWay)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
	assert.Contains(t, err.Error(), `"G"`)
}

func TestBuild_TwoWayWithTwoCategoriesUsesPostHoc(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "pre", 6, 7)
	set.Add("G", "post", 8, 9, 10)

	res, err := NewStatsEngine().Build(set, significance.TwoWay)
	require.NoError(t, err)

	g := res.Groups[0]
	assert.Equal(t, significance.PlanOmnibusPostHoc, g.Plan)
	require.NotNil(t, g.Omnibus)
	require.NoError(t, g.Matrix.CheckDirection())
	assert.Equal(t, significance.LevelNone, g.Matrix.At(0, 1))
}

func TestBuild_SingleCategoryYieldsZeroMatrix(t *testing.T) {
	set := observation.NewSet()
	set.Add("solo", "only", 1)

	res, err := NewStatsEngine().Build(set, significance.OneWay)
	require.NoError(t, err)

	g := res.Groups[0]
	assert.Equal(t, significance.PlanNone, g.Plan)
	assert.Equal(t, significance.Matrix{{0}}, g.Matrix)
	assert.Empty(t, g.Comparisons)
}

func TestBuild_EmptyCategoryFailsBeforeTests(t *testing.T) {
	set := observation.NewSet()
	// the first group would fail a paired test on shape; the empty cell in
	// the second group must be reported first
	set.Add("A", "x", 1, 2)
	set.Add("A", "y", 1, 2, 3)
	set.Add("B", "x", 1, 2)
	set.Add("B", "y")

	_, err := NewStatsEngine().Build(set, significance.OneWay)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.NotErrorIs(t, err, core.ErrShapeMismatch)
}

func TestBuild_NonFiniteValuesFailBeforeTests(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		set := observation.NewSet()
		set.Add("G", "a", 1, 2, 3)
		set.Add("G", "b", 100, 101, 102)
		set.Add("G", "c", 1, 2, bad)

		res, err := NewStatsEngine().Build(set, significance.OneWay)
		require.Error(t, err, "value %v", bad)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, core.ErrNonFiniteValue)
		assert.True(t, core.IsDataError(err))
		assert.Contains(t, err.Error(), `category "c" value 2`)
	}
}

func TestBuild_OmnibusNeedsResidualDoF(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "a", 1)
	set.Add("G", "b", 2)
	set.Add("G", "c", 3)

	_, err := NewStatsEngine().Build(set, significance.OneWay)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestBuild_PairedNeedsTwoPairs(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "a", 1)
	set.Add("G", "b", 2)

	_, err := NewStatsEngine().Build(set, significance.OneWay)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	set := referenceSet()

	_, err := NewStatsEngine().Build(set, significance.Strategy("3way"))
	assert.ErrorIs(t, err, core.ErrConfiguration)

	bad := significance.Thresholds{VeryStrong: 0.1, Strong: 0.01, Moderate: 0.02, Weak: 0.05}
	_, err = NewStatsEngine(WithThresholds(bad)).Build(set, significance.OneWay)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewStatsEngine(WithAlpha(0)).Build(set, significance.OneWay)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = NewStatsEngine().Build(nil, significance.OneWay)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestBuild_CustomThresholds(t *testing.T) {
	loose := significance.Thresholds{VeryStrong: 0.01, Strong: 0.1, Moderate: 0.6, Weak: 0.9}
	res, err := NewStatsEngine(WithThresholds(loose)).Build(referenceSet(), significance.OneWay)
	require.NoError(t, err)

	a, _ := res.Group("A")
	// p ~ 0.33 for 2 vs 0 becomes visible under the loose cut points
	assert.Greater(t, a.Matrix.At(2, 0), significance.LevelNone)
	assert.Equal(t, loose, res.Thresholds)
}

func TestBuild_FirstSeenOrder(t *testing.T) {
	set := observation.NewSet()
	set.Add("z", "late", 5, 6, 7)
	set.Add("z", "early", 1, 2, 3)
	set.Add("a", "early", 1, 2, 3)
	set.Add("a", "late", 5, 6, 7)

	res, err := NewStatsEngine().Build(set, significance.TwoWay)
	require.NoError(t, err)

	assert.Equal(t, observation.Label("z"), res.Groups[0].Group)
	assert.Equal(t, []observation.Label{"late", "early"}, res.Groups[0].Categories)
	assert.Equal(t, []observation.Label{"early", "late"}, res.Groups[1].Categories)

	// same data, mirrored positions
	assert.Greater(t, res.Groups[0].Matrix.At(0, 1), significance.LevelNone)
	assert.Greater(t, res.Groups[1].Matrix.At(1, 0), significance.LevelNone)
}

func TestBuild_DirectionExclusivityRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	eng := NewStatsEngine()

	for trial := 0; trial < 20; trial++ {
		set := observation.NewSet()
		k := 2 + rng.Intn(3)
		for c := 0; c < k; c++ {
			shift := rng.Float64() * 5
			for n := 0; n < 4; n++ {
				set.Add("g", observation.Label(strconv.Itoa(c)), shift+rng.NormFloat64())
			}
		}

		strategy := significance.OneWay
		if trial%2 == 1 {
			strategy = significance.TwoWay
		}
		res, err := eng.Build(set, strategy)
		require.NoError(t, err)

		g := res.Groups[0]
		require.NoError(t, g.Matrix.CheckDirection())
		for i := range g.Matrix {
			for j := range g.Matrix {
				if g.Matrix.At(i, j) > 0 {
					assert.Greater(t, g.Means[i], g.Means[j])
				}
			}
		}
	}
}

func TestReduce_MissingComparison(t *testing.T) {
	in := groupSamples{
		group:      "G",
		categories: []observation.Label{"a", "b", "c"},
		means:      []float64{1, 2, 3},
	}
	comps := []significance.Comparison{{A: "a", B: "b", PValue: 0.01}}

	_, err := reduce(in, comps, significance.DefaultThresholds())
	assert.ErrorIs(t, err, core.ErrUnknownCategoryLabel)
}

func TestReduce_UsesSharedPValueInBothOrientations(t *testing.T) {
	in := groupSamples{
		group:      "G",
		categories: []observation.Label{"a", "b"},
		means:      []float64{1, 2},
	}
	comps := []significance.Comparison{{A: "a", B: "b", PValue: 0.002}}

	m, err := reduce(in, comps, significance.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, significance.LevelModerate, m.At(1, 0))
	assert.Equal(t, significance.LevelNone, m.At(0, 1))
}

func TestSelectPlan(t *testing.T) {
	assert.IsType(t, pairedPlan{}, selectPlan(significance.OneWay, 2))
	assert.IsType(t, omnibusPlan{}, selectPlan(significance.OneWay, 3))
	assert.IsType(t, omnibusPlan{}, selectPlan(significance.TwoWay, 2))
	assert.IsType(t, noTestPlan{}, selectPlan(significance.TwoWay, 1))
}
