package format

import (
	"fmt"
	"math"
	"strings"

	"CryptoPulse/internal/model"
)

// Currency renders a USD amount with a magnitude suffix, e.g. "$1.25B",
// "-$340.0M", "$87.5K".
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.1fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// Percentage renders a signed percentage, e.g. "+2.35%".
func Percentage(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// LargeNumber renders a plain number with a magnitude suffix.
func LargeNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Direction maps a signed change to an arrow for compact displays.
func Direction(v float64) string {
	switch {
	case v > 0:
		return "↑"
	case v < 0:
		return "↓"
	default:
		return "→"
	}
}

// SnapshotText renders a one-screen plain-text summary of a snapshot,
// suitable for logs or a terminal dashboard.
func SnapshotText(snap *model.Snapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Market Snapshot | %s\n\n", snap.GeneratedAt.Format("2006-01-02 15:04")))

	for _, asset := range []string{"BTC", "ETH"} {
		if q, ok := snap.Quotes.Quotes[asset]; ok {
			b.WriteString(fmt.Sprintf("%s: %s (%s 24h)\n", asset, Currency(q.Price), Percentage(q.Change24h)))
		}
	}

	for _, r := range snap.RSI {
		if !math.IsNaN(r.Value) {
			b.WriteString(fmt.Sprintf("RSI(%d): %.1f\n", r.Period, r.Value))
		}
	}

	b.WriteString(fmt.Sprintf("Funding (ann.): BTC %s | ETH %s\n",
		Percentage(snap.Funding.Rates.BTC), Percentage(snap.Funding.Rates.ETH)))

	for asset, f := range snap.Flows {
		if f.Snapshot == nil {
			continue
		}
		s := f.Snapshot.Summary
		b.WriteString(fmt.Sprintf("%s ETF: 1d %s %s | 7d %s | AUM %s\n",
			asset, Currency(s.NetFlow1D), Direction(s.NetFlow1D), Currency(s.NetFlow7D), Currency(s.TotalAUM)))
	}

	a := snap.DXY.Analysis
	b.WriteString(fmt.Sprintf("DXY: %.2f (%+.2f daily) | %s, %s\n",
		a.Current, a.DailyChange, a.Level, a.Trend))

	return b.String()
}
