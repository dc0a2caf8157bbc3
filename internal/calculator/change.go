package calculator

import "math"

// Change returns the difference between the last value and the value
// `lookback` positions earlier. Series too short for the lookback report
// no change, matching a just-listed instrument.
func Change(values []float64, lookback int) float64 {
	n := len(values)
	if n == 0 || lookback <= 0 || n <= lookback {
		return 0
	}
	return values[n-1] - values[n-1-lookback]
}

// PctChange returns the percentage move from previous to current,
// measured against the magnitude of previous. A zero base reports 0.
func PctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}
