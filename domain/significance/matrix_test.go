package significance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_CheckDirection(t *testing.T) {
	m := NewMatrix(3)
	require.NoError(t, m.CheckDirection())

	m[2][0] = LevelModerate
	require.NoError(t, m.CheckDirection())
	assert.Equal(t, []int{2, 0, 0}, m.Row(2))

	m[0][2] = LevelWeak
	assert.Error(t, m.CheckDirection())

	d := NewMatrix(2)
	d[1][1] = LevelWeak
	assert.Error(t, d.CheckDirection())
}

func TestComparison_Reverse(t *testing.T) {
	c := Comparison{A: "x", B: "y", Statistic: 2.5, PValue: 0.01, MeanDiff: 3, Direction: 1, Lower: 1, Upper: 5}
	r := c.Reverse()

	assert.Equal(t, "y", string(r.A))
	assert.Equal(t, -2.5, r.Statistic)
	assert.Equal(t, 0.01, r.PValue)
	assert.Equal(t, -1, r.Direction)
	assert.Equal(t, -5.0, r.Lower)
	assert.Equal(t, -1.0, r.Upper)
	assert.Equal(t, c, r.Reverse())
}

func TestGroupResult_ComparisonLookup(t *testing.T) {
	g := GroupResult{Comparisons: []Comparison{{A: "a", B: "b", MeanDiff: -1, Direction: -1}}}

	c, ok := g.Comparison("b", "a")
	require.True(t, ok)
	assert.Equal(t, 1, c.Direction)

	_, ok = g.Comparison("a", "c")
	assert.False(t, ok)
}
