package significance

import (
	"fmt"
)

// Matrix holds directional significance for one group. Cell (i, j) is the
// level of "category i greater than category j"; it is zero on the diagonal
// and whenever mean(i) <= mean(j).
type Matrix [][]Level

// NewMatrix returns an n x n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]Level, n)
	}
	return m
}

// Size returns the number of categories.
func (m Matrix) Size() int { return len(m) }

// At returns the level for (i, j).
func (m Matrix) At(i, j int) Level { return m[i][j] }

// Row returns row i as plain counts, one per comparison layer.
func (m Matrix) Row(i int) []int {
	out := make([]int, len(m[i]))
	for j, l := range m[i] {
		out[j] = int(l)
	}
	return out
}

// Ints returns the matrix as nested ints.
func (m Matrix) Ints() [][]int {
	out := make([][]int, len(m))
	for i := range m {
		out[i] = m.Row(i)
	}
	return out
}

// CheckDirection verifies the zero diagonal and that at most one of (i, j)
// and (j, i) is non-zero.
func (m Matrix) CheckDirection() error {
	for i := range m {
		if len(m[i]) != len(m) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(m[i]), len(m))
		}
		if m[i][i] != LevelNone {
			return fmt.Errorf("diagonal cell (%d,%d) is %d", i, i, m[i][i])
		}
		for j := i + 1; j < len(m); j++ {
			if m[i][j] > LevelNone && m[j][i] > LevelNone {
				return fmt.Errorf("cells (%d,%d) and (%d,%d) are both non-zero", i, j, j, i)
			}
		}
	}
	return nil
}
