package analysis

// InterpretFunding classifies an annualized perp funding percentage.
// Sustained rates beyond ±50% indicate overleveraged positioning.
func InterpretFunding(rate float64) Band {
	switch {
	case rate >= 100:
		return Band{100, "Extremely Bullish (High Leverage)", 4}
	case rate >= 50:
		return Band{50, "Very Bullish", 3}
	case rate >= 20:
		return Band{20, "Bullish", 2}
	case rate > 0:
		return Band{0, "Slightly Bullish", 1}
	case rate == 0:
		return Band{0, "Neutral", 0}
	case rate >= -20:
		return Band{-20, "Slightly Bearish", -1}
	case rate >= -50:
		return Band{-50, "Bearish", -2}
	case rate >= -100:
		return Band{-100, "Very Bearish", -3}
	default:
		return Band{-100, "Extremely Bearish (High Short Leverage)", -4}
	}
}
