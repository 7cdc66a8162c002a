package significance

import (
	"math"

	"sigplot/domain/observation"
)

// Comparison is the result of one unordered category pair within a group.
type Comparison struct {
	Group     observation.Label `json:"group"`
	A         observation.Label `json:"a"`
	B         observation.Label `json:"b"`
	Statistic float64           `json:"statistic"`
	PValue    float64           `json:"p_value"`
	MeanDiff  float64           `json:"mean_diff"` // mean(A) - mean(B)
	Direction int               `json:"direction"` // sign(MeanDiff)
	Lower     float64           `json:"lower,omitempty"`
	Upper     float64           `json:"upper,omitempty"`
	Reject    bool              `json:"reject"`
}

// Direction returns the sign of d as -1, 0 or 1.
func Direction(d float64) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// Reverse derives the B-vs-A comparison by sign inversion.
func (c Comparison) Reverse() Comparison {
	r := c
	r.A, r.B = c.B, c.A
	r.Statistic = -c.Statistic
	r.MeanDiff = -c.MeanDiff
	r.Direction = -c.Direction
	r.Lower, r.Upper = -c.Upper, -c.Lower
	return r
}

// Omnibus is the one-way test across every category of a group. It is kept
// as a diagnostic; the matrix is driven by the post-hoc p-values.
type Omnibus struct {
	FStatistic float64 `json:"f_statistic"`
	PValue     float64 `json:"p_value"`
	DFBetween  int     `json:"df_between"`
	DFWithin   int     `json:"df_within"`
}

// GroupResult is everything computed for one group.
type GroupResult struct {
	Group       observation.Label   `json:"group"`
	Categories  []observation.Label `json:"categories"`
	Means       []float64           `json:"means"`
	Plan        PlanKind            `json:"plan"`
	Matrix      Matrix              `json:"matrix"`
	Comparisons []Comparison        `json:"comparisons,omitempty"`
	Omnibus     *Omnibus            `json:"omnibus,omitempty"`
}

// Comparison finds the comparison for (a, b) in either orientation. The
// returned value is oriented as a-vs-b.
func (g GroupResult) Comparison(a, b observation.Label) (Comparison, bool) {
	for _, c := range g.Comparisons {
		if c.A == a && c.B == b {
			return c, true
		}
		if c.A == b && c.B == a {
			return c.Reverse(), true
		}
	}
	return Comparison{}, false
}

// Result is the per-group significance output of one build call.
type Result struct {
	Strategy   Strategy      `json:"strategy"`
	Thresholds Thresholds    `json:"thresholds"`
	Groups     []GroupResult `json:"groups"`
}

// Group returns the result for label.
func (r *Result) Group(label observation.Label) (*GroupResult, bool) {
	for i := range r.Groups {
		if r.Groups[i].Group == label {
			return &r.Groups[i], true
		}
	}
	return nil, false
}

// MinPValue returns the smallest p-value across all comparisons, or NaN.
func (r *Result) MinPValue() float64 {
	minP := math.NaN()
	for _, g := range r.Groups {
		for _, c := range g.Comparisons {
			if math.IsNaN(minP) || c.PValue < minP {
				minP = c.PValue
			}
		}
	}
	return minP
}
