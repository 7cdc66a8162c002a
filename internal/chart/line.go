package chart

import (
	"fmt"
	"math"

	"sigplot/adapters/stats/hypothesis"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/internal/layout"
)

// DefaultSymbolOffset is the gap above a category's maximum used when no
// per-category offsets are configured.
const DefaultSymbolOffset = 10.0

// LineSeriesSettings styles one group's line and its error bars.
type LineSeriesSettings struct {
	Color     string           `json:"color" yaml:"color"`
	LineStyle string           `json:"line_style" yaml:"line_style"`
	LineWidth float64          `json:"line_width" yaml:"line_width"`
	ErrorBar  ErrorBarSettings `json:"error_bar" yaml:"error_bar"`
}

// LineConfig configures an overlaid line chart: groups are series and
// categories are x positions. Points and Lines are indexed by group;
// SymbolOffsets and Counts by category.
type LineConfig struct {
	Lines           []LineSeriesSettings `json:"lines" yaml:"lines"`
	Points          PointSettings        `json:"points" yaml:"points"`
	Symbols         SymbolSettings       `json:"symbols" yaml:"symbols"`
	CategorySpacing float64              `json:"category_spacing" yaml:"category_spacing"`
	JitterRange     float64              `json:"jitter_range" yaml:"jitter_range"`
	ShowPoints      bool                 `json:"show_points" yaml:"show_points"`
	MeanPointSize   float64              `json:"mean_point_size" yaml:"mean_point_size"`
	XOffset         float64              `json:"x_offset" yaml:"x_offset"`
	YOffset         float64              `json:"y_offset" yaml:"y_offset"`
	SymbolOffsets   []float64            `json:"symbol_offsets,omitempty" yaml:"symbol_offsets,omitempty"`
	Counts          [][]int              `json:"counts,omitempty" yaml:"counts,omitempty"`
}

func DefaultLineConfig() LineConfig {
	line := func(color string) LineSeriesSettings {
		eb := defaultErrorBar()
		eb.Color = color
		return LineSeriesSettings{Color: color, LineStyle: "-", LineWidth: 2, ErrorBar: eb}
	}
	symbols := DefaultSymbolSettings()
	symbols.Sizes = []float64{14, 14, 14}
	symbols.Offset = 0
	symbols.LayerHeight = 1
	return LineConfig{
		Lines:           []LineSeriesSettings{line("red"), line("green"), line("blue")},
		Points:          DefaultPointSettings(),
		Symbols:         symbols,
		CategorySpacing: 1,
		JitterRange:     0.1,
		ShowPoints:      true,
		MeanPointSize:   10,
		XOffset:         0.5,
		YOffset:         10,
	}
}

// Validate checks every table against the chart dimensions.
func (c LineConfig) Validate(groups, categories int) error {
	if err := requireLen("lines", len(c.Lines), groups); err != nil {
		return err
	}
	for i := 0; i < groups; i++ {
		if err := c.Lines[i].ErrorBar.validate(fmt.Sprintf("lines[%d].error_bar", i)); err != nil {
			return err
		}
	}
	if err := c.Points.Validate(groups); err != nil {
		return err
	}
	if c.CategorySpacing <= 0 {
		return core.NewConfigurationError("category_spacing", "must be positive")
	}
	if c.JitterRange < 0 || c.XOffset < 0 || c.YOffset < 0 {
		return core.NewConfigurationError("offsets", "jitter_range, x_offset and y_offset must not be negative")
	}
	if c.SymbolOffsets != nil {
		if err := requireLen("symbol_offsets", len(c.SymbolOffsets), categories); err != nil {
			return err
		}
	}
	if c.Counts == nil {
		return nil
	}
	if err := requireLen("counts", len(c.Counts), categories); err != nil {
		return err
	}
	return c.Symbols.validateCounts("counts", c.Counts)
}

func (c LineConfig) symbolOffset(ci int) float64 {
	if c.SymbolOffsets == nil {
		return DefaultSymbolOffset
	}
	return c.SymbolOffsets[ci]
}

// BuildLinePlan draws each group as a series over the global category order.
// Symbols for category c sit above the highest extent any group reaches at c:
// the raw maximum when points are shown, otherwise mean+SEM.
func BuildLinePlan(set *observation.Set, cfg LineConfig) (*LinePlan, error) {
	if set == nil {
		return nil, core.NewConfigurationError("observations", "missing")
	}
	groups, categories := set.Groups(), set.Categories()
	if err := cfg.Validate(len(groups), len(categories)); err != nil {
		return nil, err
	}

	plan := &LinePlan{}
	for ci, c := range categories {
		plan.Ticks = append(plan.Ticks, Tick{X: layout.LinePosition(ci, cfg.CategorySpacing), Label: string(c)})
	}

	top := make([]float64, len(categories))
	for i := range top {
		top[i] = math.Inf(-1)
	}
	lo, hi := math.Inf(1), math.Inf(-1)

	for gi, g := range groups {
		style := cfg.Lines[gi]
		series := LineSeries{
			Group:      g,
			Color:      style.Color,
			LineStyle:  style.LineStyle,
			LineWidth:  style.LineWidth,
			MarkerSize: cfg.MeanPointSize,
			Shape:      cfg.Points.Shapes[gi],
			Fill:       cfg.Points.Fills[gi],
			EdgeColor:  cfg.Points.EdgeColors[gi],
			ErrorBar:   style.ErrorBar.style(),
		}
		for ci, c := range categories {
			if !set.Has(g, c) {
				continue
			}
			values := set.Values(g, c)
			summary, err := hypothesis.Summarize(values)
			if err != nil {
				return nil, fmt.Errorf("group %q category %q: %w", g, c, err)
			}
			x := layout.LinePosition(ci, cfg.CategorySpacing)
			series.Markers = append(series.Markers, Marker{Category: c, CategoryIndex: ci, X: x, Summary: summary})

			upper, lower := summary.Mean+summary.SEM, summary.Mean-summary.SEM
			if cfg.ShowPoints {
				upper, lower = summary.Max, summary.Min
				for k, dx := range layout.Jitter(len(values), 2*cfg.JitterRange) {
					series.Points = append(series.Points, cfg.Points.point(gi, x+dx, values[k]))
				}
			}
			top[ci] = math.Max(top[ci], upper)
			hi = math.Max(hi, upper)
			lo = math.Min(lo, lower)
		}
		plan.Series = append(plan.Series, series)
	}

	if cfg.Counts != nil {
		for ci := range categories {
			if math.IsInf(top[ci], -1) {
				continue
			}
			x := layout.LinePosition(ci, cfg.CategorySpacing)
			symbols, err := cfg.Symbols.place(x, top[ci]+cfg.symbolOffset(ci), cfg.Counts[ci])
			if err != nil {
				return nil, err
			}
			plan.Symbols = append(plan.Symbols, symbols...)
		}
	}

	last := float64(max(len(categories)-1, 0)) * cfg.CategorySpacing
	plan.XLimits = [2]float64{-cfg.XOffset, last + cfg.XOffset}
	if !math.IsInf(lo, 1) {
		plan.YLimits = [2]float64{lo - cfg.YOffset, hi + cfg.YOffset}
	}
	return plan, nil
}
