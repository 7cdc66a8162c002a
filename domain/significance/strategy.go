package significance

import (
	"fmt"
	"strings"

	"sigplot/domain/core"
)

// Strategy selects how groups are tested.
type Strategy string

const (
	// OneWay prefers a paired test when a group has exactly two categories.
	OneWay Strategy = "1way"
	// TwoWay always runs the omnibus test plus post-hoc comparisons.
	TwoWay Strategy = "2way"
)

// ParseStrategy accepts "1way"/"2way" (case-insensitive, "one-way" style too).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1way", "1-way", "one-way", "oneway", "":
		return OneWay, nil
	case "2way", "2-way", "two-way", "twoway":
		return TwoWay, nil
	default:
		return "", core.NewConfigurationError("strategy", fmt.Sprintf("unknown strategy %q", s))
	}
}

// PlanKind is the test plan chosen for a single group.
type PlanKind string

const (
	PlanNone           PlanKind = "none"
	PlanPaired         PlanKind = "paired"
	PlanOmnibusPostHoc PlanKind = "omnibus+posthoc"
)

// SelectPlan picks the plan for a group with n categories.
func (s Strategy) SelectPlan(n int) PlanKind {
	switch {
	case n < 2:
		return PlanNone
	case n == 2 && s == OneWay:
		return PlanPaired
	default:
		return PlanOmnibusPostHoc
	}
}
