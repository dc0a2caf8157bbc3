package model

import "time"

// Provenance labels where a returned value came from. The presentation
// layer uses it to badge synthetic or degraded data; it is part of every
// result, never a side channel.
type Provenance string

const (
	// ProvenanceLive marks data fetched from the upstream source this cycle
	// or still fresh in cache.
	ProvenanceLive Provenance = "live"
	// ProvenanceStale marks an expired cache entry served because the
	// refresh failed.
	ProvenanceStale Provenance = "stale"
	// ProvenanceSynthetic marks generated fallback data carrying no truth
	// claim.
	ProvenanceSynthetic Provenance = "synthetic"
)

// PriceSeriesResult is the outcome of a price-history request.
type PriceSeriesResult struct {
	Series     *PriceSeries `json:"series"`
	Provenance Provenance   `json:"provenance"`
}

// QuotesResult holds spot quotes keyed by asset symbol.
type QuotesResult struct {
	Quotes     map[string]AssetQuote `json:"quotes"`
	Provenance Provenance            `json:"provenance"`
}

// RSIResult is a single current RSI reading. Value is NaN while the
// exponential mode is still warming up.
type RSIResult struct {
	Period     int        `json:"period"`
	Value      float64    `json:"value"`
	Provenance Provenance `json:"provenance"`
}

// FundingRatesResult is the outcome of a funding-rate request.
type FundingRatesResult struct {
	Rates      FundingRates `json:"rates"`
	Provenance Provenance   `json:"provenance"`
}

// FlowSnapshotResult is the outcome of an ETF-flow request.
type FlowSnapshotResult struct {
	Snapshot   *FlowSnapshot `json:"snapshot"`
	Provenance Provenance    `json:"provenance"`
}

// IndexSeriesResult is the outcome of a dollar-index request.
type IndexSeriesResult struct {
	Points     []IndexPoint  `json:"points"`
	Analysis   IndexAnalysis `json:"analysis"`
	Provenance Provenance    `json:"provenance"`
}

// Snapshot is the composite state behind one dashboard render.
type Snapshot struct {
	Prices      PriceSeriesResult             `json:"prices"`
	Quotes      QuotesResult                  `json:"quotes"`
	RSI         []RSIResult                   `json:"rsi"`
	Funding     FundingRatesResult            `json:"funding"`
	Flows       map[string]FlowSnapshotResult `json:"flows"`
	DXY         IndexSeriesResult             `json:"dxy"`
	GeneratedAt time.Time                     `json:"generated_at"`
}
