package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoPulse/internal/cache"
	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/collector"
	"CryptoPulse/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

// stubPrices scripts PriceSource responses and counts fetch attempts.
type stubPrices struct {
	points       []model.PricePoint
	quotes       map[string]model.AssetQuote
	err          error
	dailyCalls   int
	currentCalls int
}

func (s *stubPrices) FetchDailyPrices(_ context.Context, _ string, _ int) ([]model.PricePoint, error) {
	s.dailyCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.points, nil
}

func (s *stubPrices) FetchCurrentPrices(_ context.Context) (map[string]model.AssetQuote, error) {
	s.currentCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func (s *stubPrices) Name() string { return "stub-prices" }

type stubFunding struct {
	rates map[string][]float64
	err   error
	calls int
}

func (s *stubFunding) FetchFundingRates(_ context.Context, symbol string, _ int) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates[symbol], nil
}

func (s *stubFunding) Name() string { return "stub-funding" }

type stubFlows struct {
	history []model.FlowPoint
	aum     float64
	err     error
}

func (s *stubFlows) FetchFlowHistory(_ context.Context, _ string) ([]model.FlowPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func (s *stubFlows) FetchTotalAUM(_ context.Context, _ string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.aum, nil
}

func (s *stubFlows) Name() string { return "stub-flows" }

type stubFX struct {
	points []model.IndexPoint
	err    error
}

func (s *stubFX) FetchDailyCloses(_ context.Context, _ int) ([]model.IndexPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.points, nil
}

func (s *stubFX) Name() string { return "stub-fx" }

func dailyPoints(closes ...float64) []model.PricePoint {
	end := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Time: end.AddDate(0, 0, -(len(closes) - 1 - i)), Price: c}
	}
	return points
}

func ascendingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 50000 + float64(i)*100
	}
	return out
}

type fixture struct {
	svc     *Service
	clock   *fakeClock
	prices  *stubPrices
	funding *stubFunding
	flows   *stubFlows
	fx      *stubFX
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)}
	prices := &stubPrices{
		points: dailyPoints(ascendingCloses(40)...),
		quotes: map[string]model.AssetQuote{
			"BTC": {Price: 61000, Change24h: 1.2},
			"ETH": {Price: 3100, Change24h: -0.4},
		},
	}
	funding := &stubFunding{rates: map[string][]float64{
		"BTCUSDT": {0.0001, 0.0001, 0.0001},
		"ETHUSDT": {-0.0002, -0.0002},
	}}
	flows := &stubFlows{
		history: []model.FlowPoint{
			{Time: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), FlowUSD: 100e6},
			{Time: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC), FlowUSD: 200e6},
		},
		aum: 120e9,
	}
	fxPoints := make([]model.IndexPoint, 10)
	for i := range fxPoints {
		fxPoints[i] = model.IndexPoint{
			Time:  time.Date(2026, 8, 14+i, 0, 0, 0, 0, time.UTC),
			Value: 104.0 + float64(i)*0.04,
		}
	}
	fx := &stubFX{points: fxPoints}

	svc, err := NewService(prices, funding, flows, fx,
		collector.NewGenerator(nil, clock.Now),
		cache.New(clock.Now, nil),
		nil,
		Config{})
	require.NoError(t, err)
	return &fixture{svc: svc, clock: clock, prices: prices, funding: funding, flows: flows, fx: fx}
}

func TestQuotes_FreshCacheServesWithoutFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceLive, first.Provenance)

	f.clock.Advance(time.Minute)
	second := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceLive, second.Provenance)
	assert.Equal(t, first.Quotes, second.Quotes)
	assert.Equal(t, 1, f.prices.currentCalls, "fresh cache hit must not refetch")
}

func TestQuotes_ExpiryTriggersRefetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Quotes(ctx)
	f.clock.Advance(6 * time.Minute) // past the 5m quote TTL
	f.svc.Quotes(ctx)
	assert.Equal(t, 2, f.prices.currentCalls)
}

func TestQuotes_StaleFallbackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.svc.Quotes(ctx)
	require.Equal(t, model.ProvenanceLive, first.Provenance)

	f.clock.Advance(6 * time.Minute)
	f.prices.err = collector.ErrSourceUnavailable

	degraded := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceStale, degraded.Provenance)
	assert.Equal(t, first.Quotes, degraded.Quotes, "stale fallback must serve the cached value")

	// The stale entry is not promoted: the next call attempts a fetch again.
	again := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceStale, again.Provenance)
	assert.Equal(t, 3, f.prices.currentCalls)
}

func TestQuotes_SyntheticWhenCacheEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.prices.err = collector.ErrRateLimited

	result := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceSynthetic, result.Provenance)
	assert.Contains(t, result.Quotes, "BTC")
	assert.Contains(t, result.Quotes, "ETH")

	// Synthetic results are never cached: once the source recovers the
	// next call serves live data.
	f.prices.err = nil
	recovered := f.svc.Quotes(ctx)
	assert.Equal(t, model.ProvenanceLive, recovered.Provenance)
	assert.Equal(t, 61000.0, recovered.Quotes["BTC"].Price)
}

func TestPriceHistory_AttachesIndicatorColumns(t *testing.T) {
	f := newFixture(t)

	result := f.svc.PriceHistory(context.Background(), "BTC", 40)
	require.Equal(t, model.ProvenanceLive, result.Provenance)
	s := result.Series
	require.Len(t, s.Points, 40)

	for _, w := range []int{20, 50, 100, 200} {
		require.Contains(t, s.MA, w)
		assert.Len(t, s.MA[w], 40, "MA column must align with points")
	}
	assert.Len(t, s.RSI, 40, "RSI column must align with points")
	assert.Equal(t, 14, s.RSIPeriod)
	// Monotonically rising closes pin RSI at 100.
	assert.Equal(t, 100.0, s.RSI[len(s.RSI)-1])
}

func TestRSIValue_MonotonicGains(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.RSIValue(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, model.ProvenanceLive, result.Provenance)
	assert.Equal(t, 14, result.Period)
	assert.Equal(t, 100.0, result.Value)
}

func TestRSIValue_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RSIValue(context.Background(), 0)
	assert.ErrorIs(t, err, calculator.ErrInvalidArgument)
}

func TestRSIValue_ShortSourceDataDegrades(t *testing.T) {
	f := newFixture(t)
	// The source answers but with too few closes for the period.
	f.prices.points = dailyPoints(ascendingCloses(5)...)

	result, err := f.svc.RSIValue(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, model.ProvenanceSynthetic, result.Provenance)
	assert.GreaterOrEqual(t, result.Value, 0.0)
	assert.LessOrEqual(t, result.Value, 100.0)
}

func TestFundingRates_Annualized(t *testing.T) {
	f := newFixture(t)

	result := f.svc.FundingRates(context.Background())
	require.Equal(t, model.ProvenanceLive, result.Provenance)
	// Mean per-interval rate scaled by 100*24*365.
	assert.InDelta(t, 0.0001*100*24*365, result.Rates.BTC, 1e-6)
	assert.InDelta(t, -0.0002*100*24*365, result.Rates.ETH, 1e-6)
}

func TestETFFlows_Summary(t *testing.T) {
	f := newFixture(t)

	result := f.svc.ETFFlows(context.Background(), "BTC")
	require.Equal(t, model.ProvenanceLive, result.Provenance)
	s := result.Snapshot.Summary
	assert.Equal(t, 100e6, s.NetFlow1D)
	assert.Equal(t, 300e6, s.NetFlow7D)
	assert.InDelta(t, -50, s.ChangePct, 1e-9)
	assert.Equal(t, 120e9, s.TotalAUM)
}

func TestDXY_Analysis(t *testing.T) {
	f := newFixture(t)

	result := f.svc.DXY(context.Background(), 90)
	require.Equal(t, model.ProvenanceLive, result.Provenance)
	a := result.Analysis
	assert.InDelta(t, 104.36, a.Current, 1e-9)
	assert.InDelta(t, 0.04, a.DailyChange, 1e-9)
	assert.InDelta(t, 0.24, a.WeeklyChange, 1e-9)
	assert.Equal(t, "High (Strong Dollar)", a.Level)
	assert.Equal(t, "Stable", a.Trend)
}

func TestSnapshot_AllSourcesDown(t *testing.T) {
	f := newFixture(t)
	f.prices.err = collector.ErrSourceUnavailable
	f.funding.err = collector.ErrSourceUnavailable
	f.flows.err = collector.ErrSourceUnavailable
	f.fx.err = collector.ErrSourceUnavailable

	snap := f.svc.Snapshot(context.Background())

	assert.Equal(t, model.ProvenanceSynthetic, snap.Prices.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, snap.Quotes.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, snap.Funding.Provenance)
	assert.Equal(t, model.ProvenanceSynthetic, snap.DXY.Provenance)

	require.Len(t, snap.RSI, 3)
	for _, r := range snap.RSI {
		assert.Equal(t, model.ProvenanceSynthetic, r.Provenance)
	}
	require.Contains(t, snap.Flows, "BTC")
	require.Contains(t, snap.Flows, "ETH")
	for _, p := range snap.DXY.Points {
		assert.GreaterOrEqual(t, p.Value, 95.0)
		assert.LessOrEqual(t, p.Value, 110.0)
	}
}

func TestSnapshot_WarmCacheSingleFetchPerOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Snapshot(ctx)
	dailyAfterFirst := f.prices.dailyCalls
	fundingAfterFirst := f.funding.calls

	f.clock.Advance(time.Minute)
	f.svc.Snapshot(ctx)
	assert.Equal(t, dailyAfterFirst, f.prices.dailyCalls, "warm cache must not refetch price history")
	assert.Equal(t, fundingAfterFirst, f.funding.calls, "warm cache must not refetch funding")
}
