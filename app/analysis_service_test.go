package app

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sigplot/adapters/stats/engine"
	"sigplot/domain/analysis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
	"sigplot/internal/chart"
	"sigplot/internal/errors"
)

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Save(ctx context.Context, rec *analysis.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAnalysisRepository) Get(ctx context.Context, id core.AnalysisID) (*analysis.Record, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*analysis.Record)
	return rec, args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, limit, offset int) ([]*analysis.Record, error) {
	args := m.Called(ctx, limit, offset)
	recs, _ := args.Get(0).([]*analysis.Record)
	return recs, args.Error(1)
}

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

func TestAnalyze_BarPlanFromMatrix(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine())

	resp, err := svc.Analyze(context.Background(), AnalysisRequest{
		Observations: referenceSet(),
		Strategy:     significance.OneWay,
		Chart:        ChartBar,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
	require.NotNil(t, resp.BarPlan)
	assert.Nil(t, resp.LinePlan)

	b, _ := resp.Result.Group("B")
	// bar B/2 carries row 2 of B's matrix
	bar := resp.BarPlan.Bars[5]
	require.NotEmpty(t, bar.Symbols)
	assert.Equal(t, 0, bar.Symbols[0].Index)
	assert.Equal(t, int(b.Matrix.At(2, 0)), bar.Symbols[0].Count)
	assert.Empty(t, resp.BarPlan.Bars[0].Symbols)
}

func TestAnalyze_ExternalCountsWin(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine())
	cfg := chart.DefaultBarConfig()
	cfg.Counts = make([][]int, 6)
	cfg.Counts[0] = []int{0, 0, 3}

	resp, err := svc.Analyze(context.Background(), AnalysisRequest{
		Observations: referenceSet(),
		Chart:        ChartBar,
		Bar:          &cfg,
	})
	require.NoError(t, err)
	require.Len(t, resp.BarPlan.Bars[0].Symbols, 1)
	assert.Equal(t, "△△△", resp.BarPlan.Bars[0].Symbols[0].Text)
	assert.Empty(t, resp.BarPlan.Bars[5].Symbols)
}

func TestAnalyze_LinePlanWithBaseline(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine())

	resp, err := svc.Analyze(context.Background(), AnalysisRequest{
		Observations: referenceSet(),
		Chart:        ChartLine,
		Baseline:     "0",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.LinePlan)
	assert.Len(t, resp.LinePlan.Series, 2)
	// B/2 differs from B/0, so category 2 carries a group-B layer
	var found bool
	for _, s := range resp.LinePlan.Symbols {
		if s.X == 2 && s.Index == 1 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyze_Persists(t *testing.T) {
	repo := new(MockAnalysisRepository)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(rec *analysis.Record) bool {
		return rec.Groups == 2 && rec.Strategy == significance.TwoWay
	})).Return(nil)
	svc := NewAnalysisService(engine.NewStatsEngine(), WithRepository(repo))

	resp, err := svc.Analyze(context.Background(), AnalysisRequest{Observations: referenceSet(), Strategy: significance.TwoWay})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, svc.Persistent())
	repo.AssertExpectations(t)
}

func TestAnalyze_SaveFailure(t *testing.T) {
	repo := new(MockAnalysisRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(stderrors.New("connection reset"))
	svc := NewAnalysisService(engine.NewStatsEngine(), WithRepository(repo))

	_, err := svc.Analyze(context.Background(), AnalysisRequest{Observations: referenceSet()})
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
}

func TestAnalyze_Errors(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine())
	ctx := context.Background()

	_, err := svc.Analyze(ctx, AnalysisRequest{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	mismatch := observation.NewSet()
	mismatch.Add("G", "a", 6, 7)
	mismatch.Add("G", "b", 8, 9, 10)
	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: mismatch})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
	assert.Equal(t, errors.CodeShapeMismatch, errors.GetCode(err))

	cfg := chart.DefaultBarConfig()
	cfg.Bars.Colors = []string{"red"}
	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: referenceSet(), Chart: ChartBar, Bar: &cfg})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: referenceSet(), Chart: "pie"})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Build(set *observation.Set, strategy significance.Strategy) (*significance.Result, error) {
	args := m.Called(set, strategy)
	res, _ := args.Get(0).(*significance.Result)
	return res, args.Error(1)
}

func TestAnalyze_ChartConfigCheckedBeforeTests(t *testing.T) {
	ctx := context.Background()
	mismatch := observation.NewSet()
	mismatch.Add("G", "a", 6, 7)
	mismatch.Add("G", "b", 8, 9, 10)

	bar := chart.DefaultBarConfig()
	bar.Bars.Colors = nil
	_, err := NewAnalysisService(engine.NewStatsEngine()).Analyze(ctx, AnalysisRequest{
		Observations: mismatch,
		Chart:        ChartBar,
		Bar:          &bar,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.NotErrorIs(t, err, core.ErrShapeMismatch)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	builder := new(MockBuilder)
	svc := NewAnalysisService(builder)

	line := chart.DefaultLineConfig()
	line.Lines = line.Lines[:1]
	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: referenceSet(), Chart: ChartLine, Line: &line})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: referenceSet(), Chart: ChartLine, Baseline: "9"})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	bar = chart.DefaultBarConfig()
	bar.Counts = [][]int{{1}}
	_, err = svc.Analyze(ctx, AnalysisRequest{Observations: referenceSet(), Chart: ChartBar, Bar: &bar})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	builder.AssertNotCalled(t, "Build", mock.Anything, mock.Anything)
}

func TestAnalyze_NonFiniteObservation(t *testing.T) {
	set := observation.NewSet()
	set.Add("G", "a", 1, 2, 3)
	set.Add("G", "b", 100, 101, 102)
	set.Add("G", "c", 1, 2, math.NaN())

	_, err := NewAnalysisService(engine.NewStatsEngine()).Analyze(context.Background(), AnalysisRequest{Observations: set})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNonFiniteValue)
	assert.Equal(t, errors.CodeNonFiniteValue, errors.GetCode(err))
	assert.Equal(t, 422, errors.HTTPStatus(errors.GetCode(err)))
}

func TestAnalyzeBatch(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine(), WithMaxParallel(2))

	paired := observation.NewSet()
	paired.Add("G", "pre", 6, 7)
	paired.Add("G", "post", 8, 9)

	resps, err := svc.AnalyzeBatch(context.Background(), []AnalysisRequest{
		{Observations: referenceSet()},
		{Observations: paired},
		{Observations: referenceSet(), Chart: ChartBar},
	})
	require.NoError(t, err)
	require.Len(t, resps, 3)
	assert.Len(t, resps[0].Result.Groups, 2)
	assert.Equal(t, significance.PlanPaired, resps[1].Result.Groups[0].Plan)
	assert.NotNil(t, resps[2].BarPlan)
}

func TestAnalyzeBatch_FirstErrorWins(t *testing.T) {
	svc := NewAnalysisService(engine.NewStatsEngine())
	empty := observation.NewSet()
	empty.Add("G", "a")

	_, err := svc.AnalyzeBatch(context.Background(), []AnalysisRequest{
		{Observations: referenceSet()},
		{Observations: empty},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Contains(t, err.Error(), "request 1")
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	id := core.NewAnalysisID()

	none := NewAnalysisService(engine.NewStatsEngine())
	_, err := none.Get(ctx, id)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	recs, err := none.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)

	repo := new(MockAnalysisRepository)
	repo.On("Get", mock.Anything, id).Return(nil, core.NewNotFoundError("analysis", id.String()))
	repo.On("List", mock.Anything, 20, 0).Return([]*analysis.Record{{ID: id}}, nil)
	svc := NewAnalysisService(engine.NewStatsEngine(), WithRepository(repo))

	_, err = svc.Get(ctx, id)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	recs, err = svc.List(ctx, 500, -1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	repo.AssertExpectations(t)
}
