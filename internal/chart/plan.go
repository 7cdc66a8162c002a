package chart

import (
	"sigplot/adapters/stats/hypothesis"
	"sigplot/domain/observation"
	"sigplot/internal/layout"
)

// ErrorBar is the resolved error-bar drawing instruction.
type ErrorBar struct {
	layout.ErrorBarStyle
	Orientation layout.Orientation `json:"orientation"`
	Color       string             `json:"color"`
	LineWidth   float64            `json:"line_width"`
}

// Point is one raw observation marker.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Shape     string  `json:"shape"`
	Fill      string  `json:"fill"`
	EdgeColor string  `json:"edge_color"`
	Size      float64 `json:"size"`
}

// Symbol is one layer of annotation glyphs.
type Symbol struct {
	layout.Layer
	X     float64 `json:"x"`
	Text  string  `json:"text"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Tick is an axis tick with its label.
type Tick struct {
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// Bar is one (group, category) bar of a bar chart.
type Bar struct {
	Group         observation.Label  `json:"group"`
	Category      observation.Label  `json:"category"`
	GroupIndex    int                `json:"group_index"`
	CategoryIndex int                `json:"category_index"`
	X             float64            `json:"x"`
	Width         float64            `json:"width"`
	Summary       hypothesis.Summary `json:"summary"`
	Color         string             `json:"color"`
	EdgeColor     string             `json:"edge_color"`
	ErrorBar      ErrorBar           `json:"error_bar"`
	Points        []Point            `json:"points"`
	Symbols       []Symbol           `json:"symbols,omitempty"`
}

// BarPlan is everything a renderer needs to draw a grouped bar chart.
type BarPlan struct {
	Bars           []Bar  `json:"bars"`
	GroupTicks     []Tick `json:"group_ticks"`
	CategoryLabels []Tick `json:"category_labels"`
}

// Marker is a mean marker of one line series.
type Marker struct {
	Category      observation.Label  `json:"category"`
	CategoryIndex int                `json:"category_index"`
	X             float64            `json:"x"`
	Summary       hypothesis.Summary `json:"summary"`
}

// LineSeries is one group drawn as a line across categories.
type LineSeries struct {
	Group      observation.Label `json:"group"`
	Color      string            `json:"color"`
	LineStyle  string            `json:"line_style"`
	LineWidth  float64           `json:"line_width"`
	MarkerSize float64           `json:"marker_size"`
	Shape      string            `json:"shape"`
	Fill       string            `json:"fill"`
	EdgeColor  string            `json:"edge_color"`
	ErrorBar   ErrorBar          `json:"error_bar"`
	Markers    []Marker          `json:"markers"`
	Points     []Point           `json:"points,omitempty"`
}

// LinePlan is everything a renderer needs to draw an overlaid line chart.
type LinePlan struct {
	Series  []LineSeries `json:"series"`
	Symbols []Symbol     `json:"symbols,omitempty"`
	Ticks   []Tick       `json:"ticks"`
	XLimits [2]float64   `json:"x_limits"`
	YLimits [2]float64   `json:"y_limits"`
}
