package chart

import (
	"fmt"

	"sigplot/adapters/stats/hypothesis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/internal/layout"
)

// BarConfig configures a grouped bar chart. Counts, when set, holds one
// glyph count vector per bar, indexed group*categories + category.
type BarConfig struct {
	Bars    BarSettings    `json:"bars" yaml:"bars"`
	Points  PointSettings  `json:"points" yaml:"points"`
	Symbols SymbolSettings `json:"symbols" yaml:"symbols"`
	Counts  [][]int        `json:"counts,omitempty" yaml:"counts,omitempty"`
}

func DefaultBarConfig() BarConfig {
	return BarConfig{
		Bars:    DefaultBarSettings(),
		Points:  DefaultPointSettings(),
		Symbols: DefaultSymbolSettings(),
	}
}

// Validate checks every table against the chart dimensions.
func (c BarConfig) Validate(groups, categories int) error {
	if err := c.Bars.Validate(categories); err != nil {
		return err
	}
	if err := c.Points.Validate(categories); err != nil {
		return err
	}
	if c.Counts == nil {
		return nil
	}
	if err := requireLen("counts", len(c.Counts), groups*categories); err != nil {
		return err
	}
	return c.Symbols.validateCounts("counts", c.Counts)
}

// BuildBarPlan lays out one bar per (group, category) cell of set. Groups
// are placed left to right; within a group bars follow the global category
// order. Cells a group never observed are left out.
func BuildBarPlan(set *observation.Set, cfg BarConfig) (*BarPlan, error) {
	if set == nil {
		return nil, core.NewConfigurationError("observations", "missing")
	}
	groups, categories := set.Groups(), set.Categories()
	n := len(categories)
	if err := cfg.Validate(len(groups), n); err != nil {
		return nil, err
	}

	geo := cfg.Bars.Geometry
	plan := &BarPlan{}
	for gi, g := range groups {
		plan.GroupTicks = append(plan.GroupTicks, Tick{X: geo.GroupCenter(gi, n), Label: string(g)})
		for ci, c := range categories {
			if !set.Has(g, c) {
				continue
			}
			values := set.Values(g, c)
			summary, err := hypothesis.Summarize(values)
			if err != nil {
				return nil, fmt.Errorf("group %q category %q: %w", g, c, err)
			}

			x := geo.Position(gi, ci, n)
			bar := Bar{
				Group:         g,
				Category:      c,
				GroupIndex:    gi,
				CategoryIndex: ci,
				X:             x,
				Width:         geo.BarWidth,
				Summary:       summary,
				Color:         cfg.Bars.Colors[ci],
				EdgeColor:     cfg.Bars.EdgeColors[ci],
				ErrorBar:      cfg.Bars.ErrorBars[ci].style(),
			}
			for k, dx := range layout.Jitter(len(values), geo.BarWidth/4) {
				bar.Points = append(bar.Points, cfg.Points.point(ci, x+dx, values[k]))
			}
			if cfg.Counts != nil {
				base := summary.Max + cfg.Symbols.Offset
				bar.Symbols, err = cfg.Symbols.place(x, base, cfg.Counts[gi*n+ci])
				if err != nil {
					return nil, err
				}
			}
			plan.Bars = append(plan.Bars, bar)
			plan.CategoryLabels = append(plan.CategoryLabels, Tick{X: x, Label: string(c)})
		}
	}
	return plan, nil
}
