package analysis

// DXYImpact summarizes the dollar index for crypto markets: the absolute
// level, the short-term trend, and the resulting risk posture.
type DXYImpact struct {
	Level        string
	Trend        string
	CryptoImpact string
}

// InterpretDXY classifies the current dollar-index level and its daily
// change. Above 105 has historically been a headwind for risk assets,
// below 100 a tailwind.
func InterpretDXY(current, dailyChange float64) DXYImpact {
	var imp DXYImpact

	switch {
	case current >= 106:
		imp.Level = "Very High (Strong Dollar)"
		imp.CryptoImpact = "Very Bearish for Crypto"
	case current >= 104:
		imp.Level = "High (Strong Dollar)"
		imp.CryptoImpact = "Bearish for Crypto"
	case current >= 102:
		imp.Level = "Elevated (Firm Dollar)"
		imp.CryptoImpact = "Slightly Bearish for Crypto"
	case current >= 100:
		imp.Level = "Normal Range"
		imp.CryptoImpact = "Neutral for Crypto"
	default:
		imp.Level = "Low (Weak Dollar)"
		imp.CryptoImpact = "Bullish for Crypto"
	}

	switch {
	case dailyChange > 0.15:
		imp.Trend = "Rising Strongly"
	case dailyChange > 0.05:
		imp.Trend = "Rising"
	case dailyChange < -0.15:
		imp.Trend = "Falling Strongly"
	case dailyChange < -0.05:
		imp.Trend = "Falling"
	default:
		imp.Trend = "Stable"
	}

	return imp
}
