package calculator

import "errors"

// Indicator errors are surfaced to callers: they indicate a programming or
// configuration mistake, not a transient upstream condition.
var (
	// ErrInvalidArgument marks a non-positive window or period.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientData marks too few points for the requested window.
	ErrInsufficientData = errors.New("insufficient data")
)
