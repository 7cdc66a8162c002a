// Package layout computes annotation stacking, bar/marker geometry and the
// error-bar drawing policy shared by bar and line charts.
package layout

import (
	"fmt"
	"strings"

	"sigplot/domain/core"
)

// Layer is one stacked row of glyphs above an anchor position.
type Layer struct {
	Index int     `json:"index"` // position in the original count vector
	Count int     `json:"count"`
	Slot  int     `json:"slot"` // dense vertical slot, 0 is closest to the anchor
	Y     float64 `json:"y"`
}

// PlanLayers stacks the non-zero layers of counts upward from baseY. Zero
// layers take no slot, so the remaining layers close ranks while keeping
// their original order.
func PlanLayers(counts []int, baseY, layerHeight float64) ([]Layer, error) {
	var out []Layer
	slot := 0
	for i, n := range counts {
		if n < 0 {
			return nil, core.NewConfigurationError(fmt.Sprintf("counts[%d]", i), fmt.Sprintf("negative glyph count %d", n))
		}
		if n == 0 {
			continue
		}
		out = append(out, Layer{
			Index: i,
			Count: n,
			Slot:  slot,
			Y:     baseY + float64(slot)*layerHeight,
		})
		slot++
	}
	return out, nil
}

// GlyphText repeats symbol count times. Zero counts produce "" and are never
// emitted as layers.
func GlyphText(symbol string, count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(symbol, count)
}
