// Package chart turns observations and significance results into bar and
// line chart plans: positions, summaries, error-bar styles and annotation
// glyph placements for an external renderer.
package chart

import (
	"fmt"
	"slices"

	"sigplot/domain/core"
	"sigplot/internal/layout"
)

// ErrorBarSettings configures the whiskers of one category (bar chart) or one
// group (line chart).
type ErrorBarSettings struct {
	Orientation layout.Orientation `json:"orientation" yaml:"orientation"`
	Color       string             `json:"color" yaml:"color"`
	CapSize     float64            `json:"cap_size" yaml:"cap_size"`
	CapThick    float64            `json:"cap_thick" yaml:"cap_thick"`
	LineWidth   float64            `json:"line_width" yaml:"line_width"`
}

func defaultErrorBar() ErrorBarSettings {
	return ErrorBarSettings{
		Orientation: layout.OrientationBoth,
		Color:       "black",
		CapSize:     5,
		CapThick:    1,
		LineWidth:   2,
	}
}

func (s ErrorBarSettings) validate(field string) error {
	if _, err := layout.ParseOrientation(string(s.Orientation)); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if s.CapSize < 0 || s.CapThick < 0 || s.LineWidth < 0 {
		return core.NewConfigurationError(field, "sizes must not be negative")
	}
	return nil
}

// style resolves the settings through the shared error-bar policy.
func (s ErrorBarSettings) style() ErrorBar {
	o, _ := layout.ParseOrientation(string(s.Orientation))
	return ErrorBar{
		ErrorBarStyle: layout.ErrorBarPolicy(o, s.CapSize, s.CapThick),
		Orientation:   o,
		Color:         s.Color,
		LineWidth:     s.LineWidth,
	}
}

// BarSettings configures bar geometry and per-category bar styling.
type BarSettings struct {
	layout.Geometry `yaml:",inline"`
	Colors          []string           `json:"colors" yaml:"colors"`
	EdgeColors      []string           `json:"edge_colors" yaml:"edge_colors"`
	ErrorBars       []ErrorBarSettings `json:"error_bars" yaml:"error_bars"`
}

func DefaultBarSettings() BarSettings {
	return BarSettings{
		Geometry:   layout.DefaultGeometry(),
		Colors:     []string{"red", "green", "blue"},
		EdgeColors: []string{"black", "black", "black"},
		ErrorBars:  []ErrorBarSettings{defaultErrorBar(), defaultErrorBar(), defaultErrorBar()},
	}
}

// Validate checks geometry and that every per-category table covers
// categories entries.
func (s BarSettings) Validate(categories int) error {
	if err := s.Geometry.Validate(); err != nil {
		return err
	}
	if err := requireLen("bars.colors", len(s.Colors), categories); err != nil {
		return err
	}
	if err := requireLen("bars.edge_colors", len(s.EdgeColors), categories); err != nil {
		return err
	}
	if err := requireLen("bars.error_bars", len(s.ErrorBars), categories); err != nil {
		return err
	}
	for i := 0; i < categories; i++ {
		if err := s.ErrorBars[i].validate(fmt.Sprintf("bars.error_bars[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// PointSettings styles raw observation markers.
type PointSettings struct {
	Shapes     []string  `json:"shapes" yaml:"shapes"`
	Fills      []string  `json:"fills" yaml:"fills"`
	EdgeColors []string  `json:"edge_colors" yaml:"edge_colors"`
	Sizes      []float64 `json:"sizes" yaml:"sizes"`
}

func DefaultPointSettings() PointSettings {
	return PointSettings{
		Shapes:     []string{"o", "^", "s"},
		Fills:      []string{"red", "green", "blue"},
		EdgeColors: []string{"darkred", "darkgreen", "darkblue"},
		Sizes:      []float64{50, 50, 50},
	}
}

// Validate requires n entries in every table.
func (s PointSettings) Validate(n int) error {
	for _, t := range []struct {
		name string
		len  int
	}{
		{"points.shapes", len(s.Shapes)},
		{"points.fills", len(s.Fills)},
		{"points.edge_colors", len(s.EdgeColors)},
		{"points.sizes", len(s.Sizes)},
	} {
		if err := requireLen(t.name, t.len, n); err != nil {
			return err
		}
	}
	return nil
}

func (s PointSettings) point(i int, x, y float64) Point {
	return Point{X: x, Y: y, Shape: s.Shapes[i], Fill: s.Fills[i], EdgeColor: s.EdgeColors[i], Size: s.Sizes[i]}
}

// SymbolSettings styles annotation layers; index i of each table belongs to
// layer i.
type SymbolSettings struct {
	Glyphs      []string  `json:"glyphs" yaml:"glyphs"`
	Sizes       []float64 `json:"sizes" yaml:"sizes"`
	Colors      []string  `json:"colors" yaml:"colors"`
	Offset      float64   `json:"offset" yaml:"offset"`             // gap between anchor and first layer
	LayerHeight float64   `json:"layer_height" yaml:"layer_height"` // vertical distance between layers
}

func DefaultSymbolSettings() SymbolSettings {
	return SymbolSettings{
		Glyphs:      []string{"∗", "+", "△"},
		Sizes:       []float64{14, 12, 12},
		Colors:      []string{"black", "black", "black"},
		Offset:      0.3,
		LayerHeight: 2,
	}
}

// validateCounts checks every count vector against the layer tables. Only
// layers with a non-zero count are referenced.
func (s SymbolSettings) validateCounts(field string, counts [][]int) error {
	if s.LayerHeight < 0 {
		return core.NewConfigurationError("symbols.layer_height", "must not be negative")
	}
	for i, row := range counts {
		for layer, n := range row {
			if n < 0 {
				return core.NewConfigurationError(fmt.Sprintf("%s[%d][%d]", field, i, layer), "negative glyph count")
			}
			if n == 0 {
				continue
			}
			if layer >= len(s.Glyphs) {
				return core.NewMissingIndexError("symbols.glyphs", layer, len(s.Glyphs))
			}
			if layer >= len(s.Sizes) {
				return core.NewMissingIndexError("symbols.sizes", layer, len(s.Sizes))
			}
			if layer >= len(s.Colors) {
				return core.NewMissingIndexError("symbols.colors", layer, len(s.Colors))
			}
		}
	}
	return nil
}

// place stacks counts above (x, baseY) and attaches glyph styling.
func (s SymbolSettings) place(x, baseY float64, counts []int) ([]Symbol, error) {
	layers, err := layout.PlanLayers(counts, baseY, s.LayerHeight)
	if err != nil {
		return nil, err
	}
	out := make([]Symbol, 0, len(layers))
	for _, l := range layers {
		out = append(out, Symbol{
			Layer: l,
			X:     x,
			Text:  layout.GlyphText(s.Glyphs[l.Index], l.Count),
			Size:  s.Sizes[l.Index],
			Color: s.Colors[l.Index],
		})
	}
	return out, nil
}

func requireLen(field string, have, need int) error {
	if have < need {
		return core.NewMissingIndexError(field, need-1, have)
	}
	return nil
}

func cloneCounts(c [][]int) [][]int {
	if c == nil {
		return nil
	}
	out := make([][]int, len(c))
	for i := range c {
		out[i] = slices.Clone(c[i])
	}
	return out
}

func (s PointSettings) clone() PointSettings {
	return PointSettings{
		Shapes:     slices.Clone(s.Shapes),
		Fills:      slices.Clone(s.Fills),
		EdgeColors: slices.Clone(s.EdgeColors),
		Sizes:      slices.Clone(s.Sizes),
	}
}

func (s SymbolSettings) clone() SymbolSettings {
	s.Glyphs = slices.Clone(s.Glyphs)
	s.Sizes = slices.Clone(s.Sizes)
	s.Colors = slices.Clone(s.Colors)
	return s
}

// Clone returns a deep copy, safe to decode overrides into.
func (c BarConfig) Clone() BarConfig {
	c.Bars.Colors = slices.Clone(c.Bars.Colors)
	c.Bars.EdgeColors = slices.Clone(c.Bars.EdgeColors)
	c.Bars.ErrorBars = slices.Clone(c.Bars.ErrorBars)
	c.Points = c.Points.clone()
	c.Symbols = c.Symbols.clone()
	c.Counts = cloneCounts(c.Counts)
	return c
}

// Clone returns a deep copy, safe to decode overrides into.
func (c LineConfig) Clone() LineConfig {
	c.Lines = slices.Clone(c.Lines)
	c.Points = c.Points.clone()
	c.Symbols = c.Symbols.clone()
	c.SymbolOffsets = slices.Clone(c.SymbolOffsets)
	c.Counts = cloneCounts(c.Counts)
	return c
}
