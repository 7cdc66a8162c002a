package hypothesis

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Beyond this many degrees of freedom the scale factor is treated as 1.
	largeDoF = 25000

	rangeLimit    = 8.0 // standard normal integration half-width
	rangePanels   = 8
	scalePanels   = 32
	legendreNodes = 16
)

// StudentizedRangeCDF returns P(Q <= q) for the studentized range of k
// normal means with df error degrees of freedom. df may be +Inf.
func StudentizedRangeCDF(q float64, k int, df float64) float64 {
	switch {
	case k < 2 || q <= 0 || math.IsNaN(q):
		return 0
	case math.IsInf(q, 1):
		return 1
	case math.IsInf(df, 1) || df > largeDoF:
		return clampProbability(normalRangeCDF(q, k))
	}

	// Q = R / S with S = sqrt(chi2(df)/df): integrate P(R <= q*s) over the
	// density of S, which concentrates around 1 with sd ~ 1/sqrt(2df).
	logC := math.Ln2 + df/2*math.Log(df/2) - lgamma(df/2)
	density := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return math.Exp(logC + (df-1)*math.Log(s) - df*s*s/2)
	}

	spread := 12 / math.Sqrt(2*df)
	lo := math.Max(0, 1-spread)
	hi := 1 + spread
	f := func(s float64) float64 {
		return density(s) * normalRangeCDF(q*s, k)
	}
	return clampProbability(panelled(f, lo, hi, scalePanels))
}

// StudentizedRangeQuantile inverts StudentizedRangeCDF by bisection.
func StudentizedRangeQuantile(p float64, k int, df float64) float64 {
	if p <= 0 || k < 2 {
		return 0
	}
	if p >= 1 {
		return math.Inf(1)
	}

	lo, hi := 0.0, 8.0
	for StudentizedRangeCDF(hi, k, df) < p {
		lo, hi = hi, hi*2
		if hi > 1e6 {
			return math.Inf(1)
		}
	}
	for i := 0; i < 60 && hi-lo > 1e-7; i++ {
		mid := (lo + hi) / 2
		if StudentizedRangeCDF(mid, k, df) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// normalRangeCDF is P(max - min <= w) for k iid standard normals:
// k * integral phi(z) [Phi(z+w) - Phi(z)]^(k-1) dz.
func normalRangeCDF(w float64, k int) float64 {
	if w <= 0 {
		return 0
	}
	n := distuv.UnitNormal
	f := func(z float64) float64 {
		inner := n.CDF(z+w) - n.CDF(z)
		if inner <= 0 {
			return 0
		}
		return n.Prob(z) * math.Pow(inner, float64(k-1))
	}
	return float64(k) * panelled(f, -rangeLimit, rangeLimit, rangePanels)
}

// panelled integrates f over [lo, hi] split into equal Gauss-Legendre panels.
func panelled(f func(float64) float64, lo, hi float64, panels int) float64 {
	h := (hi - lo) / float64(panels)
	total := 0.0
	for i := 0; i < panels; i++ {
		a := lo + float64(i)*h
		total += quad.Fixed(f, a, a+h, legendreNodes, quad.Legendre{}, 0)
	}
	return total
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
