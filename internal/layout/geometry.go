package layout

import (
	"sigplot/domain/core"
)

// Geometry holds the horizontal spacing of a grouped bar chart.
type Geometry struct {
	BarWidth      float64 `json:"bar_width" yaml:"width"`
	BarDistance   float64 `json:"bar_distance" yaml:"distance"`
	GroupDistance float64 `json:"group_distance" yaml:"group_distance"`
}

// DefaultGeometry returns width 0.8, distance 0.2, group distance 1.0.
func DefaultGeometry() Geometry {
	return Geometry{BarWidth: 0.8, BarDistance: 0.2, GroupDistance: 1.0}
}

// Validate rejects negative spacings and a non-positive width.
func (g Geometry) Validate() error {
	if !(g.BarWidth > 0) {
		return core.NewConfigurationError("bars.width", "must be positive")
	}
	if g.BarDistance < 0 {
		return core.NewConfigurationError("bars.distance", "must not be negative")
	}
	if g.GroupDistance < 0 {
		return core.NewConfigurationError("bars.group_distance", "must not be negative")
	}
	return nil
}

// pitch is the distance between neighbouring bars of a group.
func (g Geometry) pitch() float64 {
	return g.BarWidth + g.BarDistance
}

// GroupOrigin is the x of the first bar of group gi when every group has
// categories bars.
func (g Geometry) GroupOrigin(gi, categories int) float64 {
	return float64(gi) * (float64(categories)*g.pitch() + g.GroupDistance)
}

// Position is the x of category ci within group gi.
func (g Geometry) Position(gi, ci, categories int) float64 {
	return g.GroupOrigin(gi, categories) + float64(ci)*g.pitch()
}

// GroupCenter is the tick position centred under the bars of group gi.
func (g Geometry) GroupCenter(gi, categories int) float64 {
	return g.GroupOrigin(gi, categories) + float64(categories-1)*g.pitch()/2
}

// LinePosition is the x of category ci on an overlaid line chart.
func LinePosition(ci int, spacing float64) float64 {
	return float64(ci) * spacing
}

// Jitter returns n evenly spaced offsets covering [-spread/2, spread/2]. A
// single point sits on the anchor.
func Jitter(n int, spread float64) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{0}
	}
	out := make([]float64, n)
	lo := -spread / 2
	step := spread / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = spread / 2
	return out
}
