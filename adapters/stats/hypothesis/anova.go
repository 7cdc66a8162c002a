package hypothesis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVAResult is a one-way analysis of variance across k samples.
type ANOVAResult struct {
	F         float64 `json:"f"`
	PValue    float64 `json:"p_value"`
	DFBetween int     `json:"df_between"`
	DFWithin  int     `json:"df_within"`
	SSBetween float64 `json:"ss_between"`
	SSWithin  float64 `json:"ss_within"`
}

// OneWayANOVA tests whether the sample means differ. It needs at least two
// non-empty samples and more observations than samples.
func OneWayANOVA(samples [][]float64) (ANOVAResult, error) {
	k := len(samples)
	if k < 2 {
		return ANOVAResult{}, sampleSizeError(k, 2)
	}

	n := 0
	total := 0.0
	means := make([]float64, k)
	for i, s := range samples {
		sum, err := Summarize(s)
		if err != nil {
			return ANOVAResult{}, err
		}
		means[i] = sum.Mean
		n += sum.N
		total += sum.Mean * float64(sum.N)
	}
	if n <= k {
		return ANOVAResult{}, sampleSizeError(n, k+1)
	}
	grand := total / float64(n)

	var ssb, ssw float64
	for i, s := range samples {
		d := means[i] - grand
		ssb += float64(len(s)) * d * d
		ssw += sumSquares(s, means[i])
	}

	dfb, dfw := k-1, n-k
	res := ANOVAResult{DFBetween: dfb, DFWithin: dfw, SSBetween: ssb, SSWithin: ssw}

	if ssw == 0 {
		if ssb == 0 {
			res.F, res.PValue = math.NaN(), 1
		} else {
			res.F, res.PValue = math.Inf(1), 0
		}
		return res, nil
	}

	res.F = (ssb / float64(dfb)) / (ssw / float64(dfw))
	dist := distuv.F{D1: float64(dfb), D2: float64(dfw)}
	res.PValue = clampProbability(1 - dist.CDF(res.F))
	return res, nil
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
