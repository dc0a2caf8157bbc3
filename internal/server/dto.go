package server

import (
	"math"
	"time"

	"CryptoPulse/internal/analysis"
	"CryptoPulse/internal/format"
	"CryptoPulse/internal/model"
)

// floatPtr maps NaN to nil so the JSON encoder never sees it. RSI columns
// carry NaN during the indicator warm-up window.
func floatPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func floatPtrs(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = floatPtr(v)
	}
	return out
}

type pricePointDTO struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

type priceSeriesDTO struct {
	Asset      string             `json:"asset"`
	Points     []pricePointDTO    `json:"points"`
	MA         map[int][]*float64 `json:"ma"`
	RSI        []*float64         `json:"rsi"`
	RSIPeriod  int                `json:"rsi_period"`
	FetchedAt  time.Time          `json:"fetched_at"`
	Provenance model.Provenance   `json:"provenance"`
}

func toPriceSeriesDTO(r model.PriceSeriesResult) priceSeriesDTO {
	s := r.Series
	points := make([]pricePointDTO, len(s.Points))
	for i, p := range s.Points {
		points[i] = pricePointDTO{Time: p.Time, Price: p.Price}
	}
	ma := make(map[int][]*float64, len(s.MA))
	for w, col := range s.MA {
		ma[w] = floatPtrs(col)
	}
	return priceSeriesDTO{
		Asset:      s.Asset,
		Points:     points,
		MA:         ma,
		RSI:        floatPtrs(s.RSI),
		RSIPeriod:  s.RSIPeriod,
		FetchedAt:  s.FetchedAt,
		Provenance: r.Provenance,
	}
}

type quoteDTO struct {
	Price         float64 `json:"price"`
	PriceDisplay  string  `json:"price_display"`
	Change24h     float64 `json:"change_24h"`
	ChangeDisplay string  `json:"change_display"`
}

type quotesDTO struct {
	Quotes     map[string]quoteDTO `json:"quotes"`
	Provenance model.Provenance    `json:"provenance"`
}

func toQuotesDTO(r model.QuotesResult) quotesDTO {
	quotes := make(map[string]quoteDTO, len(r.Quotes))
	for asset, q := range r.Quotes {
		quotes[asset] = quoteDTO{
			Price:         q.Price,
			PriceDisplay:  format.Currency(q.Price),
			Change24h:     q.Change24h,
			ChangeDisplay: format.Percentage(q.Change24h),
		}
	}
	return quotesDTO{Quotes: quotes, Provenance: r.Provenance}
}

type rsiDTO struct {
	Period     int              `json:"period"`
	Value      *float64         `json:"value"`
	Label      string           `json:"label"`
	Severity   int              `json:"severity"`
	Provenance model.Provenance `json:"provenance"`
}

func toRSIDTO(r model.RSIResult) rsiDTO {
	dto := rsiDTO{Period: r.Period, Value: floatPtr(r.Value), Provenance: r.Provenance}
	if dto.Value != nil {
		band := analysis.InterpretRSI(r.Value)
		dto.Label = band.Label
		dto.Severity = band.Severity
	}
	return dto
}

type fundingAssetDTO struct {
	Annualized float64 `json:"annualized"`
	Display    string  `json:"display"`
	Label      string  `json:"label"`
	Severity   int     `json:"severity"`
}

type fundingDTO struct {
	BTC        fundingAssetDTO  `json:"btc"`
	ETH        fundingAssetDTO  `json:"eth"`
	Provenance model.Provenance `json:"provenance"`
}

func toFundingAssetDTO(rate float64) fundingAssetDTO {
	band := analysis.InterpretFunding(rate)
	return fundingAssetDTO{
		Annualized: rate,
		Display:    format.Percentage(rate),
		Label:      band.Label,
		Severity:   band.Severity,
	}
}

func toFundingDTO(r model.FundingRatesResult) fundingDTO {
	return fundingDTO{
		BTC:        toFundingAssetDTO(r.Rates.BTC),
		ETH:        toFundingAssetDTO(r.Rates.ETH),
		Provenance: r.Provenance,
	}
}

type flowPointDTO struct {
	Time     time.Time `json:"time"`
	FlowUSD  float64   `json:"flow_usd"`
	PriceUSD float64   `json:"price_usd"`
}

type flowSummaryDTO struct {
	NetFlow1D        float64 `json:"net_flow_1d"`
	NetFlow1DDisplay string  `json:"net_flow_1d_display"`
	NetFlow7D        float64 `json:"net_flow_7d"`
	NetFlow7DDisplay string  `json:"net_flow_7d_display"`
	ChangePct        float64 `json:"change_pct"`
	TotalAUM         float64 `json:"total_aum"`
	TotalAUMDisplay  string  `json:"total_aum_display"`
	Label            string  `json:"label"`
	Severity         int     `json:"severity"`
}

type flowsDTO struct {
	Asset      string           `json:"asset"`
	Summary    flowSummaryDTO   `json:"summary"`
	History    []flowPointDTO   `json:"history"`
	Provenance model.Provenance `json:"provenance"`
}

func toFlowsDTO(r model.FlowSnapshotResult) flowsDTO {
	s := r.Snapshot
	band := analysis.InterpretFlows(s.Summary.NetFlow7D)
	history := make([]flowPointDTO, len(s.History))
	for i, p := range s.History {
		history[i] = flowPointDTO{Time: p.Time, FlowUSD: p.FlowUSD, PriceUSD: p.PriceUSD}
	}
	return flowsDTO{
		Asset: s.Asset,
		Summary: flowSummaryDTO{
			NetFlow1D:        s.Summary.NetFlow1D,
			NetFlow1DDisplay: format.Currency(s.Summary.NetFlow1D),
			NetFlow7D:        s.Summary.NetFlow7D,
			NetFlow7DDisplay: format.Currency(s.Summary.NetFlow7D),
			ChangePct:        s.Summary.ChangePct,
			TotalAUM:         s.Summary.TotalAUM,
			TotalAUMDisplay:  format.Currency(s.Summary.TotalAUM),
			Label:            band.Label,
			Severity:         band.Severity,
		},
		History:    history,
		Provenance: r.Provenance,
	}
}

type indexPointDTO struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

type indexDTO struct {
	Points       []indexPointDTO  `json:"points"`
	Current      float64          `json:"current"`
	DailyChange  float64          `json:"daily_change"`
	WeeklyChange float64          `json:"weekly_change"`
	Level        string           `json:"level"`
	Trend        string           `json:"trend"`
	CryptoImpact string           `json:"crypto_impact"`
	Provenance   model.Provenance `json:"provenance"`
}

func toIndexDTO(r model.IndexSeriesResult) indexDTO {
	points := make([]indexPointDTO, len(r.Points))
	for i, p := range r.Points {
		points[i] = indexPointDTO{Time: p.Time, Value: p.Value}
	}
	return indexDTO{
		Points:       points,
		Current:      r.Analysis.Current,
		DailyChange:  r.Analysis.DailyChange,
		WeeklyChange: r.Analysis.WeeklyChange,
		Level:        r.Analysis.Level,
		Trend:        r.Analysis.Trend,
		CryptoImpact: r.Analysis.CryptoImpact,
		Provenance:   r.Provenance,
	}
}

type snapshotDTO struct {
	Prices      priceSeriesDTO      `json:"prices"`
	Quotes      quotesDTO           `json:"quotes"`
	RSI         []rsiDTO            `json:"rsi"`
	Funding     fundingDTO          `json:"funding"`
	Flows       map[string]flowsDTO `json:"flows"`
	DXY         indexDTO            `json:"dxy"`
	GeneratedAt time.Time           `json:"generated_at"`
}

func toSnapshotDTO(s *model.Snapshot) snapshotDTO {
	rsi := make([]rsiDTO, len(s.RSI))
	for i, r := range s.RSI {
		rsi[i] = toRSIDTO(r)
	}
	flows := make(map[string]flowsDTO, len(s.Flows))
	for asset, f := range s.Flows {
		flows[asset] = toFlowsDTO(f)
	}
	return snapshotDTO{
		Prices:      toPriceSeriesDTO(s.Prices),
		Quotes:      toQuotesDTO(s.Quotes),
		RSI:         rsi,
		Funding:     toFundingDTO(s.Funding),
		Flows:       flows,
		DXY:         toIndexDTO(s.DXY),
		GeneratedAt: s.GeneratedAt,
	}
}
