package engine

import (
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

type pairKey struct {
	a, b observation.Label
}

// reduce turns unordered comparisons into a directional matrix: cell (i, j)
// carries the level of the shared p-value only when mean(i) > mean(j).
func reduce(in groupSamples, comps []significance.Comparison, th significance.Thresholds) (significance.Matrix, error) {
	n := len(in.categories)
	m := significance.NewMatrix(n)
	if n < 2 {
		return m, nil
	}

	lookup := make(map[pairKey]significance.Comparison, len(comps))
	for _, c := range comps {
		lookup[pairKey{c.A, c.B}] = c
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			a, b := in.categories[i], in.categories[j]
			c, ok := lookup[pairKey{a, b}]
			if !ok {
				c, ok = lookup[pairKey{b, a}]
			}
			if !ok {
				return nil, core.NewUnknownCategoryError(in.group.String(), a.String(), b.String())
			}
			if in.means[i] > in.means[j] {
				m[i][j] = th.Level(c.PValue)
			}
		}
	}
	return m, nil
}
