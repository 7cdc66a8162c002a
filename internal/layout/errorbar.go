package layout

import (
	"fmt"
	"strings"

	"sigplot/domain/core"
)

// Orientation selects which whiskers of an error bar are drawn.
type Orientation string

const (
	OrientationBoth  Orientation = "both"
	OrientationUpper Orientation = "upper"
	OrientationLower Orientation = "lower"
	OrientationNone  Orientation = "none"
)

// ParseOrientation accepts the four orientations; "" means both.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrientationBoth, nil
	case OrientationBoth, OrientationUpper, OrientationLower, OrientationNone:
		return o, nil
	default:
		return "", core.NewConfigurationError("error_bar_orientation", fmt.Sprintf("unknown orientation %q", s))
	}
}

// CapMarker is the short horizontal marker drawn at whisker tips.
const CapMarker = "_"

// ErrorBarStyle is the flag/cap tuple handed to the renderer.
type ErrorBarStyle struct {
	LoLims        bool    `json:"lolims"`
	UpLims        bool    `json:"uplims"`
	CapSize       float64 `json:"capsize"`
	CapThick      float64 `json:"capthick"`
	CapMarker     string  `json:"cap_marker"`
	CapMarkerSize float64 `json:"cap_marker_size"`
}

// ErrorBarPolicy resolves an orientation into drawing flags. Bar and line
// charts both go through here.
func ErrorBarPolicy(o Orientation, capSize, capThick float64) ErrorBarStyle {
	s := ErrorBarStyle{
		CapSize:       capSize,
		CapThick:      capThick,
		CapMarker:     CapMarker,
		CapMarkerSize: capSize,
	}
	switch o {
	case OrientationUpper:
		s.LoLims, s.UpLims = true, false
		s.CapSize = 0
	case OrientationLower:
		s.LoLims, s.UpLims = false, true
		s.CapSize = 0
	case OrientationNone:
		s.LoLims, s.UpLims = true, true
		s.CapSize = 0
		s.CapThick = 0
	}
	return s
}
