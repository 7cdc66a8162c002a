package significance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigplot/domain/core"
)

func TestLevel_Boundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want Level
	}{
		{1, LevelNone},
		{0.05, LevelNone},
		{0.0499999, LevelWeak},
		{0.01, LevelWeak},
		{0.0099999, LevelModerate},
		{0.001, LevelModerate},
		{0.000999, LevelStrong},
		{0.0001, LevelStrong},
		{0.0000999, LevelVeryStrong},
		{0, LevelVeryStrong},
		{math.NaN(), LevelNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.p), "p=%v", tt.p)
	}
}

func TestLevel_MonotoneNonIncreasing(t *testing.T) {
	prev := LevelFor(0)
	for p := 0.0; p <= 1.0; p += 0.00001 {
		l := LevelFor(p)
		if l > prev {
			t.Fatalf("level increased from %d to %d at p=%v", prev, l, p)
		}
		prev = l
	}
}

func TestThresholds_Validate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	bad := []Thresholds{
		{VeryStrong: 0, Strong: 0.001, Moderate: 0.01, Weak: 0.05},
		{VeryStrong: 0.01, Strong: 0.001, Moderate: 0.01, Weak: 0.05},
		{VeryStrong: 0.0001, Strong: 0.001, Moderate: 0.01, Weak: 1.5},
	}
	for _, th := range bad {
		err := th.Validate()
		assert.ErrorIs(t, err, core.ErrConfiguration, "%+v", th)
	}
}

func TestThresholds_Custom(t *testing.T) {
	th := Thresholds{VeryStrong: 0.001, Strong: 0.005, Moderate: 0.01, Weak: 0.1}
	assert.Equal(t, LevelWeak, th.Level(0.07))
	assert.Equal(t, LevelNone, DefaultThresholds().Level(0.07))
}

func TestLevel_Stars(t *testing.T) {
	assert.Equal(t, "ns", LevelNone.Stars())
	assert.Equal(t, "**", LevelModerate.Stars())
	assert.Equal(t, "****", LevelVeryStrong.Stars())
}

func TestStrategy_SelectPlan(t *testing.T) {
	tests := []struct {
		strategy Strategy
		n        int
		want     PlanKind
	}{
		{OneWay, 0, PlanNone},
		{OneWay, 1, PlanNone},
		{OneWay, 2, PlanPaired},
		{OneWay, 3, PlanOmnibusPostHoc},
		{TwoWay, 1, PlanNone},
		{TwoWay, 2, PlanOmnibusPostHoc},
		{TwoWay, 5, PlanOmnibusPostHoc},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.strategy.SelectPlan(tt.n), "%s n=%d", tt.strategy, tt.n)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("2WAY")
	require.NoError(t, err)
	assert.Equal(t, TwoWay, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, OneWay, s)

	_, err = ParseStrategy("3way")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
