package errors

import (
	"math"
	"strings"
)

// ValidateIndex checks that i addresses one of n vertices.
func ValidateIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeInvalidIndex, "vertex index %d out of range [0, %d)", i, n)
	}
	return nil
}

// ValidateTolerance checks that a weld tolerance is a finite positive number.
//
// Zero is rejected because the axis-wise comparison is strict (|d| < tol),
// so a zero tolerance would never match anything, not even identical points.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return New(ErrCodeInvalidTolerance, "tolerance must be finite, got %v", tol)
	}
	if tol <= 0 {
		return New(ErrCodeInvalidTolerance, "tolerance must be positive, got %v", tol)
	}
	return nil
}

// ValidateCoordinate checks that a coordinate component is finite.
func ValidateCoordinate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "coordinate must be finite, got %v", v)
	}
	return nil
}

// ValidateFormat checks that format is one of the valid formats (case-insensitive).
func ValidateFormat(format string, valid map[string]bool) error {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !valid[f] {
		return New(ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	return nil
}
