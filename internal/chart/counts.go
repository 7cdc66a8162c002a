package chart

import (
	"fmt"

	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
)

// CountsFromResult derives bar glyph counts from significance matrices: the
// bar of category i in group g gets M_g[i][j] glyphs on layer j, where j is
// the global index of the category compared against. The result is indexed
// group*categories + category, matching BarConfig.Counts.
func CountsFromResult(set *observation.Set, result *significance.Result) ([][]int, error) {
	if set == nil || result == nil {
		return nil, core.NewConfigurationError("counts", "no significance result to annotate from")
	}
	groups, categories := set.Groups(), set.CategoryIndex()
	n := categories.Len()
	counts := make([][]int, len(groups)*n)
	for i := range counts {
		counts[i] = make([]int, n)
	}

	for gi, g := range groups {
		gr, ok := result.Group(g)
		if !ok {
			return nil, fmt.Errorf("%w: no significance result for group %q", core.ErrConfiguration, g)
		}
		global, err := globalPositions(categories, gr)
		if err != nil {
			return nil, err
		}
		for i := range gr.Categories {
			for j, level := range gr.Matrix.Row(i) {
				counts[gi*n+global[i]][global[j]] = level
			}
		}
	}
	return counts, nil
}

// BaselineCounts derives line-chart glyph counts: category c gets, on layer
// g, the level of the difference between c and baseline within group g, in
// whichever direction it is significant.
func BaselineCounts(set *observation.Set, result *significance.Result, baseline observation.Label) ([][]int, error) {
	if set == nil || result == nil {
		return nil, core.NewConfigurationError("counts", "no significance result to annotate from")
	}
	groups, categories := set.Groups(), set.CategoryIndex()
	if _, ok := categories.Position(baseline); !ok {
		return nil, core.NewConfigurationError("baseline", fmt.Sprintf("unknown category %q", baseline))
	}
	counts := make([][]int, categories.Len())
	for i := range counts {
		counts[i] = make([]int, len(groups))
	}

	for gi, g := range groups {
		gr, ok := result.Group(g)
		if !ok {
			return nil, fmt.Errorf("%w: no significance result for group %q", core.ErrConfiguration, g)
		}
		global, err := globalPositions(categories, gr)
		if err != nil {
			return nil, err
		}
		b := -1
		for i, c := range gr.Categories {
			if c == baseline {
				b = i
			}
		}
		if b < 0 {
			continue
		}
		for i := range gr.Categories {
			if i == b {
				continue
			}
			counts[global[i]][gi] = int(max(gr.Matrix.At(i, b), gr.Matrix.At(b, i)))
		}
	}
	return counts, nil
}

func globalPositions(categories *observation.Index, gr *significance.GroupResult) ([]int, error) {
	if gr.Matrix.Size() != len(gr.Categories) {
		return nil, fmt.Errorf("%w: group %q matrix is %d wide for %d categories",
			core.ErrConfiguration, gr.Group, gr.Matrix.Size(), len(gr.Categories))
	}
	out := make([]int, len(gr.Categories))
	for i, c := range gr.Categories {
		pos, ok := categories.Position(c)
		if !ok {
			return nil, fmt.Errorf("%w: group %q category %q is not in the observation set",
				core.ErrUnknownCategoryLabel, gr.Group, c)
		}
		out[i] = pos
	}
	return out, nil
}
