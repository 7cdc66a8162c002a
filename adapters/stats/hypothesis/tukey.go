package hypothesis

import (
	"math"

	"sigplot/domain/core"
)

// PairResult is one Tukey HSD comparison between samples I and J (I < J).
type PairResult struct {
	I        int     `json:"i"`
	J        int     `json:"j"`
	MeanDiff float64 `json:"mean_diff"` // mean(I) - mean(J)
	Q        float64 `json:"q"`         // studentized range statistic
	PAdj     float64 `json:"p_adj"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Reject   bool    `json:"reject"`
}

// TukeyHSD compares every pair of samples with the Tukey-Kramer procedure,
// pooling the within-sample variance. Pairs are returned in (0,1), (0,2), ...
// (1,2), ... order. alpha sets the family-wise confidence intervals and the
// Reject flag; it does not change PAdj.
func TukeyHSD(samples [][]float64, alpha float64) ([]PairResult, error) {
	k := len(samples)
	if k < 2 {
		return nil, sampleSizeError(k, 2)
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, core.NewConfigurationError("alpha", "must be in (0, 1)")
	}

	means := make([]float64, k)
	n := 0
	ssw := 0.0
	for i, s := range samples {
		sum, err := Summarize(s)
		if err != nil {
			return nil, err
		}
		means[i] = sum.Mean
		n += sum.N
		ssw += sumSquares(s, sum.Mean)
	}
	if n <= k {
		return nil, sampleSizeError(n, k+1)
	}

	df := float64(n - k)
	mse := ssw / df
	crit := StudentizedRangeQuantile(1-alpha, k, df) / math.Sqrt2

	out := make([]PairResult, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := means[i] - means[j]
			// standard error of the difference; q uses se/sqrt(2)
			se := math.Sqrt(mse * (1/float64(len(samples[i])) + 1/float64(len(samples[j]))))

			r := PairResult{I: i, J: j, MeanDiff: diff}
			if se == 0 {
				if diff == 0 {
					r.Q, r.PAdj = 0, 1
				} else {
					r.Q, r.PAdj = math.Inf(1), 0
				}
			} else {
				r.Q = math.Abs(diff) / (se / math.Sqrt2)
				r.PAdj = clampProbability(1 - StudentizedRangeCDF(r.Q, k, df))
			}
			r.Lower = diff - crit*se
			r.Upper = diff + crit*se
			r.Reject = r.PAdj < alpha
			out = append(out, r)
		}
	}
	return out, nil
}
