package model

import "time"

// PricePoint is a single daily close observation.
// Points are immutable once fetched, ordered ascending by time, with
// unique timestamps within a series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries holds raw prices plus position-aligned derived columns.
// Every derived slice has exactly one value per point: moving averages use
// partial windows (minimum period 1), RSI is NaN during its warm-up.
// A series is never mutated after construction; recomputation produces a
// new one.
type PriceSeries struct {
	Asset     string
	Points    []PricePoint
	MA        map[int][]float64 // keyed by window size
	RSI       []float64
	RSIPeriod int
	FetchedAt time.Time
}

// Closes extracts the raw price column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Price
	}
	return closes
}

// AssetQuote is a spot price with its 24h change.
type AssetQuote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
}

// FundingRates holds annualized 7-day average perp funding percentages.
type FundingRates struct {
	BTC float64 `json:"btc"`
	ETH float64 `json:"eth"`
}

// FlowPoint is one ETF flow observation. PriceUSD may be zero when the
// provider omits it.
type FlowPoint struct {
	Time     time.Time `json:"time"`
	FlowUSD  float64   `json:"flow_usd"`
	PriceUSD float64   `json:"price_usd,omitempty"`
}

// FlowSummary aggregates a most-recent-first flow history.
type FlowSummary struct {
	NetFlow1D float64 `json:"net_flow_1d"`
	NetFlow7D float64 `json:"net_flow_7d"`
	ChangePct float64 `json:"change_pct"`
	TotalAUM  float64 `json:"total_aum"`
}

// FlowSnapshot is the full ETF flow picture for one asset. History is
// ordered most-recent-first.
type FlowSnapshot struct {
	Asset   string      `json:"asset"`
	Summary FlowSummary `json:"summary"`
	History []FlowPoint `json:"history"`
}

// IndexPoint is one daily close of the dollar-strength index.
type IndexPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// IndexAnalysis summarizes the dollar index for the dashboard cards.
// WeeklyChange compares against the seventh most recent close.
type IndexAnalysis struct {
	Current      float64 `json:"current"`
	DailyChange  float64 `json:"daily_change"`
	WeeklyChange float64 `json:"weekly_change"`
	Level        string  `json:"level"`
	Trend        string  `json:"trend"`
	CryptoImpact string  `json:"crypto_impact"`
}
