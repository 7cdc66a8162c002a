package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)

	// Data errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrShapeMismatch    = errors.New("sample shape mismatch")
	ErrNonFiniteValue   = errors.New("non-finite observation")

	// Invariant errors
	ErrUnknownCategoryLabel = errors.New("unknown category label")

	// Configuration errors
	ErrConfiguration = errors.New("invalid configuration")
)

// NewInsufficientDataError reports a group/category that cannot feed a test.
func NewInsufficientDataError(group, category string, have, need int) error {
	return fmt.Errorf("%w: group %q category %q has %d observations, need %d", ErrInsufficientData, group, category, have, need)
}

// NewShapeMismatchError reports a paired comparison with unequal sample lengths.
func NewShapeMismatchError(group string, lenA, lenB int) error {
	return fmt.Errorf("%w: group %q paired samples have lengths %d and %d", ErrShapeMismatch, group, lenA, lenB)
}

// NewNonFiniteValueError reports a NaN or infinite observation.
func NewNonFiniteValueError(group, category string, index int, v float64) error {
	return fmt.Errorf("%w: group %q category %q value %d is %v", ErrNonFiniteValue, group, category, index, v)
}

func NewUnknownCategoryError(group, a, b string) error {
	return fmt.Errorf("%w: group %q has no comparison for %q vs %q", ErrUnknownCategoryLabel, group, a, b)
}

// NewConfigurationError names the offending field and, when relevant, the index.
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewMissingIndexError(table string, index, length int) error {
	return fmt.Errorf("%w: %s has %d entries, index %d is referenced", ErrConfiguration, table, length, index)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrNonFiniteValue)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
