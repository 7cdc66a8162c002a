// Package hypothesis implements the statistical tests behind significance
// annotations: paired t-test, one-way ANOVA and Tukey HSD.
package hypothesis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"sigplot/domain/core"
)

// Summary holds the descriptive statistics drawn for a bar or marker.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // population standard deviation
	SEM    float64 `json:"sem"`     // StdDev / sqrt(N)
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the descriptive statistics of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("%w: cannot summarize an empty sample", core.ErrInsufficientData)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return Summary{}, err
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return Summary{}, err
	}
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	n := len(values)
	return Summary{
		N:      n,
		Mean:   mean,
		StdDev: sd,
		SEM:    sd / math.Sqrt(float64(n)),
		Min:    min,
		Max:    max,
	}, nil
}

// sumSquares returns the sum of squared deviations from mean.
func sumSquares(values []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss
}

func sampleSizeError(have, need int) error {
	return fmt.Errorf("%w: need at least %d, have %d", core.ErrInsufficientData, need, have)
}

func shapeError(lenA, lenB int) error {
	return fmt.Errorf("%w: samples have lengths %d and %d", core.ErrShapeMismatch, lenA, lenB)
}
