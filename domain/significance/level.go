package significance

import (
	"math"
	"strings"

	"sigplot/domain/core"
)

// Level is the ordinal strength of a p-value: 0 (not significant) to 4.
type Level int

const (
	LevelNone Level = iota
	LevelWeak
	LevelModerate
	LevelStrong
	LevelVeryStrong
)

// MaxLevel is the highest level a p-value can map to.
const MaxLevel = LevelVeryStrong

// Stars renders the level in the conventional asterisk notation; "ns" for 0.
func (l Level) Stars() string {
	if l <= LevelNone {
		return "ns"
	}
	return strings.Repeat("*", int(l))
}

// Thresholds are the p-value cut points. A p-value strictly below a cut point
// earns the corresponding level.
type Thresholds struct {
	VeryStrong float64 `json:"very_strong" yaml:"very_strong"` // level 4
	Strong     float64 `json:"strong" yaml:"strong"`           // level 3
	Moderate   float64 `json:"moderate" yaml:"moderate"`       // level 2
	Weak       float64 `json:"weak" yaml:"weak"`               // level 1
}

// DefaultThresholds returns 0.0001 / 0.001 / 0.01 / 0.05.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VeryStrong: 0.0001,
		Strong:     0.001,
		Moderate:   0.01,
		Weak:       0.05,
	}
}

// Validate requires 0 < VeryStrong < Strong < Moderate < Weak <= 1.
func (t Thresholds) Validate() error {
	if !(t.VeryStrong > 0) {
		return core.NewConfigurationError("thresholds.very_strong", "must be positive")
	}
	if !(t.VeryStrong < t.Strong && t.Strong < t.Moderate && t.Moderate < t.Weak) {
		return core.NewConfigurationError("thresholds", "cut points must be strictly increasing")
	}
	if t.Weak > 1 {
		return core.NewConfigurationError("thresholds.weak", "must not exceed 1")
	}
	return nil
}

// Level maps p to a significance level. NaN maps to LevelNone.
func (t Thresholds) Level(p float64) Level {
	switch {
	case math.IsNaN(p):
		return LevelNone
	case p < t.VeryStrong:
		return LevelVeryStrong
	case p < t.Strong:
		return LevelStrong
	case p < t.Moderate:
		return LevelModerate
	case p < t.Weak:
		return LevelWeak
	default:
		return LevelNone
	}
}

// LevelFor maps p with the default thresholds.
func LevelFor(p float64) Level {
	return DefaultThresholds().Level(p)
}
