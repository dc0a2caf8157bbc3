package analysis

// InterpretFlows classifies a 7-day net ETF flow. Flows are tracked in raw
// USD; the thresholds apply in millions, the unit the dashboard displays.
func InterpretFlows(netFlow7D float64) Band {
	m := netFlow7D / 1e6
	switch {
	case m >= 500:
		return Band{500, "Very Strong Inflows", 4}
	case m >= 200:
		return Band{200, "Strong Inflows", 3}
	case m >= 50:
		return Band{50, "Moderate Inflows", 2}
	case m >= 0:
		return Band{0, "Light Inflows", 1}
	case m >= -50:
		return Band{-50, "Light Outflows", -1}
	case m >= -200:
		return Band{-200, "Moderate Outflows", -2}
	case m >= -500:
		return Band{-500, "Strong Outflows", -3}
	default:
		return Band{-500, "Very Strong Outflows", -4}
	}
}
