package analysis

import "math"

// Band is one row of an ordered threshold table: values at or above Min
// (and below the previous row's Min) carry this label. Severity is 0 for
// neutral, positive toward overbought/bullish, negative toward
// oversold/bearish.
type Band struct {
	Min      float64
	Label    string
	Severity int
}

// rsiBands is scanned top-down, first match wins. Together with rsiFloor
// it partitions the whole real line: every input maps to exactly one band.
var rsiBands = []Band{
	{80, "Extremely Overbought", 3},
	{70, "Overbought", 2},
	{60, "Slightly Overbought", 1},
	{40, "Normal", 0},
	{30, "Slightly Oversold", -1},
	{20, "Oversold", -2},
}

var rsiFloor = Band{math.Inf(-1), "Extremely Oversold", -3}

// InterpretRSI maps an RSI value to its qualitative band.
func InterpretRSI(rsi float64) Band {
	for _, b := range rsiBands {
		if rsi >= b.Min {
			return b
		}
	}
	return rsiFloor
}
