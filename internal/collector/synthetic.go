package collector

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"CryptoPulse/internal/model"
)

// biasCycle alternates stretches of inflow- and outflow-leaning behavior.
// Each bias applies to one stepsPerBias-long stretch of the walk.
var biasCycle = []float64{1, 0.5, -0.3, 1.2, 0.8, -0.5, 0.9, 1.1, 0.2}

const (
	stepsPerBias  = 7
	spikeProb     = 0.15
	momentumNudge = 0.3
)

// Generator produces plausible fallback series when no live or cached
// value is available. The output carries no truth claim; the contract is a
// well-formed, boundedly-varying shape: a baseline, a repeating trend-bias
// cycle, bounded random-walk increments, occasional volatility spikes, and
// momentum after large steps. Deterministic under a seeded rand.
//
// One generator is shared by every request handler and the refresh job;
// rand.Rand is not safe for concurrent use, so the mutex serializes all
// draws.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator driven by rng; a nil rng seeds from the
// wall clock. The now function defaults to time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// step produces one walk increment: scaled noise shaped by the current
// bias, a rare volatility spike, and a momentum nudge in the direction of
// the previous step when that step was large.
func (g *Generator) step(i int, scale, prev, largeStep float64) float64 {
	bias := biasCycle[(i/stepsPerBias)%len(biasCycle)]
	delta := g.rng.NormFloat64() * scale * bias
	if g.rng.Float64() < spikeProb {
		delta *= 1.5 + g.rng.Float64() // volatility spike, x1.5-x2.5
	}
	if math.Abs(prev) > largeStep {
		if prev > 0 {
			delta += momentumNudge * math.Abs(delta)
		} else {
			delta -= momentumNudge * math.Abs(delta)
		}
	}
	return delta
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// priceBaselines anchor synthetic price walks per asset.
var priceBaselines = map[string]float64{
	"BTC": 60000,
	"ETH": 3000,
}

func baselineFor(asset string) float64 {
	if b, ok := priceBaselines[asset]; ok {
		return b
	}
	return 100
}

// PriceSeries generates `days` daily closes ending today, ascending,
// floored at half the baseline.
func (g *Generator) PriceSeries(asset string, days int) []model.PricePoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := baselineFor(asset)
	end := g.now().UTC().Truncate(24 * time.Hour)

	points := make([]model.PricePoint, days)
	price := base
	var prev float64
	for i := 0; i < days; i++ {
		delta := g.step(i, base*0.01, prev, base*0.02)
		price = clamp(price+delta, base*0.5, base*2)
		prev = delta
		points[i] = model.PricePoint{
			Time:  end.AddDate(0, 0, -(days - 1 - i)),
			Price: price,
		}
	}
	return points
}

// Quotes generates spot quotes with modest 24h changes.
func (g *Generator) Quotes() map[string]model.AssetQuote {
	g.mu.Lock()
	defer g.mu.Unlock()

	quotes := make(map[string]model.AssetQuote, len(priceBaselines))
	for asset, base := range priceBaselines {
		quotes[asset] = model.AssetQuote{
			Price:     base * (1 + g.rng.NormFloat64()*0.02),
			Change24h: clamp(g.rng.NormFloat64()*2, -10, 10),
		}
	}
	return quotes
}

// FundingRates generates annualized funding percentages in the mildly
// bullish range typical of calm markets, clamped to +/-100.
func (g *Generator) FundingRates() model.FundingRates {
	g.mu.Lock()
	defer g.mu.Unlock()
	return model.FundingRates{
		BTC: clamp(10+g.rng.NormFloat64()*15, -100, 100),
		ETH: clamp(8+g.rng.NormFloat64()*15, -100, 100),
	}
}

// FlowHistory generates `days` of ETF flows, most recent first, with the
// accompanying price walk.
func (g *Generator) FlowHistory(asset string, days int) []model.FlowPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := baselineFor(asset)
	end := g.now().UTC().Truncate(24 * time.Hour)

	// Oldest first while walking, reversed to most-recent-first below.
	history := make([]model.FlowPoint, days)
	price := base
	var prevFlow float64
	for i := 0; i < days; i++ {
		flow := g.step(i, 300e6, prevFlow, 100e6)
		prevFlow = flow
		price = clamp(price+g.rng.NormFloat64()*base*0.008, base*0.5, base*2)
		history[i] = model.FlowPoint{
			Time:     end.AddDate(0, 0, -(days - 1 - i)),
			FlowUSD:  flow,
			PriceUSD: price,
		}
	}
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history
}

// TotalAUM generates a plausible total assets-under-management figure.
func (g *Generator) TotalAUM(asset string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if asset == "ETH" {
		return (8000 + g.rng.Float64()*4000) * 1e6
	}
	return (100000 + g.rng.Float64()*20000) * 1e6
}

// DXY generation bounds: a dollar index outside this range would not be
// plausible fallback data.
const (
	dxyFloor = 95
	dxyCeil  = 110
)

// IndexSeries generates `days` of dollar-index closes around the 100
// baseline, ascending, clamped to [95, 110].
func (g *Generator) IndexSeries(days int) []model.IndexPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	end := g.now().UTC().Truncate(24 * time.Hour)

	points := make([]model.IndexPoint, days)
	value := 100.0
	var prev float64
	for i := 0; i < days; i++ {
		delta := g.step(i, 0.2, prev, 0.3)
		value = clamp(value+delta, dxyFloor, dxyCeil)
		prev = delta
		points[i] = model.IndexPoint{
			Time:  end.AddDate(0, 0, -(days - 1 - i)),
			Value: value,
		}
	}
	return points
}
