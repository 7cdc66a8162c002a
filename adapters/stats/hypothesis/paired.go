package hypothesis

import (
	"math"

	mstats "github.com/aclements/go-moremath/stats"
)

// TestResult is the outcome of a two-sample test.
type TestResult struct {
	Statistic float64 `json:"statistic"`
	DoF       float64 `json:"dof"`
	PValue    float64 `json:"p_value"`
}

// PairedT runs a two-sided paired t-test of a against b. The samples must be
// index-aligned and of equal length with at least two pairs.
//
// When every difference is identical the statistic is infinite: the p-value
// is 0 if the differences are non-zero and 1 otherwise.
func PairedT(a, b []float64) (TestResult, error) {
	if len(a) != len(b) {
		return TestResult{}, shapeError(len(a), len(b))
	}
	if len(a) < 2 {
		return TestResult{}, sampleSizeError(len(a), 2)
	}

	dof := float64(len(a) - 1)
	if d, constant := constantDifference(a, b); constant {
		switch {
		case d > 0:
			return TestResult{Statistic: math.Inf(1), DoF: dof, PValue: 0}, nil
		case d < 0:
			return TestResult{Statistic: math.Inf(-1), DoF: dof, PValue: 0}, nil
		default:
			return TestResult{Statistic: 0, DoF: dof, PValue: 1}, nil
		}
	}

	res, err := mstats.PairedTTest(a, b, 0, mstats.LocationDiffers)
	if err != nil {
		return TestResult{}, err
	}
	return TestResult{Statistic: res.T, DoF: res.DoF, PValue: res.P}, nil
}

func constantDifference(a, b []float64) (float64, bool) {
	d := a[0] - b[0]
	for i := 1; i < len(a); i++ {
		if a[i]-b[i] != d {
			return 0, false
		}
	}
	return d, true
}
