package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"CryptoPulse/internal/analysis"
	"CryptoPulse/internal/cache"
	"CryptoPulse/internal/calculator"
	"CryptoPulse/internal/collector"
	"CryptoPulse/internal/model"
)

// Operation names used for cache keys and degradation logs.
const (
	opPriceHistory = "price_history"
	opQuotes       = "current_prices"
	opRSI          = "rsi"
	opFunding      = "funding_rates"
	opFlows        = "etf_flows"
	opIndex        = "dxy"
)

// fundingLookback is roughly seven days of funding observations.
const fundingLookback = 168

// weeklyLookback compares against the seventh most recent close.
const weeklyLookback = 6

// TTLConfig sets per-operation cache lifetimes: short for volatile data
// (prices, RSI), long for slower-moving data (ETF flows, DXY).
type TTLConfig struct {
	PriceHistory time.Duration
	Quotes       time.Duration
	RSI          time.Duration
	Funding      time.Duration
	Flows        time.Duration
	Index        time.Duration
}

// Config tunes the fetch-and-degrade policy.
type Config struct {
	TTL             TTLConfig
	Timeout         time.Duration // per live fetch
	MAWindows       []int
	SeriesRSIPeriod int
	RSIMode         calculator.RSIMode
	RSIPeriods      []int    // snapshot RSI readings
	FlowAssets      []string // snapshot ETF flow assets
	PriceDays       int
	IndexDays       int
	FlowDays        int // synthetic flow history length
}

func (c *Config) applyDefaults() {
	if c.TTL.PriceHistory == 0 {
		c.TTL.PriceHistory = time.Hour
	}
	if c.TTL.Quotes == 0 {
		c.TTL.Quotes = 5 * time.Minute
	}
	if c.TTL.RSI == 0 {
		c.TTL.RSI = 5 * time.Minute
	}
	if c.TTL.Funding == 0 {
		c.TTL.Funding = 10 * time.Minute
	}
	if c.TTL.Flows == 0 {
		c.TTL.Flows = time.Hour
	}
	if c.TTL.Index == 0 {
		c.TTL.Index = time.Hour
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if len(c.MAWindows) == 0 {
		c.MAWindows = []int{20, 50, 100, 200}
	}
	if c.SeriesRSIPeriod == 0 {
		c.SeriesRSIPeriod = 14
	}
	if len(c.RSIPeriods) == 0 {
		c.RSIPeriods = []int{7, 14, 30}
	}
	if len(c.FlowAssets) == 0 {
		c.FlowAssets = []string{"BTC", "ETH"}
	}
	if c.PriceDays == 0 {
		c.PriceDays = 365
	}
	if c.IndexDays == 0 {
		c.IndexDays = 90
	}
	if c.FlowDays == 0 {
		c.FlowDays = 60
	}
}

func (c *Config) validate() error {
	for _, w := range c.MAWindows {
		if w <= 0 {
			return fmt.Errorf("%w: MA window must be positive, got %d", calculator.ErrInvalidArgument, w)
		}
	}
	for _, p := range c.RSIPeriods {
		if p <= 0 {
			return fmt.Errorf("%w: RSI period must be positive, got %d", calculator.ErrInvalidArgument, p)
		}
	}
	if c.SeriesRSIPeriod <= 0 {
		return fmt.Errorf("%w: series RSI period must be positive, got %d", calculator.ErrInvalidArgument, c.SeriesRSIPeriod)
	}
	return nil
}

// Service is the resilient fetch-and-degrade policy. Every operation
// consults the TTL cache first, refreshes from the live source when the
// entry is missing or expired, and degrades to the stale entry or to
// synthetic data when the source fails. Callers always receive a
// well-formed result with a provenance flag; source errors never
// propagate.
type Service struct {
	prices  collector.PriceSource
	funding collector.FundingSource
	flows   collector.FlowSource
	fx      collector.FXSource
	synth   *collector.Generator
	cache   *cache.Cache
	log     *zap.Logger
	cfg     Config
}

// NewService wires the policy. Windows and periods are validated here so
// the calculators cannot fail on the hot path.
func NewService(prices collector.PriceSource, funding collector.FundingSource,
	flows collector.FlowSource, fx collector.FXSource, synth *collector.Generator,
	c *cache.Cache, log *zap.Logger, cfg Config) (*Service, error) {

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		prices:  prices,
		funding: funding,
		flows:   flows,
		fx:      fx,
		synth:   synth,
		cache:   c,
		log:     log,
		cfg:     cfg,
	}, nil
}

// resolve runs one cache-fetch-degrade cycle for a single operation key.
// The stale entry wins over synthesis, stays stale (no promotion to
// fresh), and synthetic results are never stored so a later real fetch is
// not blocked by a fictitious expiry.
func resolve[T any](ctx context.Context, s *Service, op string, ttl time.Duration,
	args []any, live func(context.Context) (T, error), synth func() T) (T, model.Provenance) {

	key := s.cache.Key(op, args...)
	if e, ok := s.cache.Get(key); ok {
		return e.Value.(T), e.Provenance
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	v, err := live(fetchCtx)
	if err == nil {
		s.cache.Put(key, v, model.ProvenanceLive, ttl)
		return v, model.ProvenanceLive
	}

	if e, ok := s.cache.GetStale(key); ok {
		s.log.Warn("serving stale cache entry",
			zap.String("op", op), zap.String("reason", classify(err)), zap.Error(err))
		return e.Value.(T), model.ProvenanceStale
	}

	s.log.Warn("serving synthetic fallback",
		zap.String("op", op), zap.String("reason", classify(err)), zap.Error(err))
	return synth(), model.ProvenanceSynthetic
}

func classify(err error) string {
	switch {
	case errors.Is(err, collector.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, collector.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "source_unavailable"
	}
}

// PriceHistory returns daily closes with MA and RSI columns attached.
func (s *Service) PriceHistory(ctx context.Context, asset string, days int) model.PriceSeriesResult {
	series, prov := resolve(ctx, s, opPriceHistory, s.cfg.TTL.PriceHistory, []any{asset, days},
		func(ctx context.Context) (*model.PriceSeries, error) {
			points, err := s.prices.FetchDailyPrices(ctx, asset, days)
			if err != nil {
				return nil, err
			}
			return s.buildSeries(asset, points), nil
		},
		func() *model.PriceSeries {
			return s.buildSeries(asset, s.synth.PriceSeries(asset, days))
		})
	return model.PriceSeriesResult{Series: series, Provenance: prov}
}

// Quotes returns current spot prices with 24h changes.
func (s *Service) Quotes(ctx context.Context) model.QuotesResult {
	quotes, prov := resolve(ctx, s, opQuotes, s.cfg.TTL.Quotes, nil,
		func(ctx context.Context) (map[string]model.AssetQuote, error) {
			return s.prices.FetchCurrentPrices(ctx)
		},
		s.synth.Quotes)
	return model.QuotesResult{Quotes: quotes, Provenance: prov}
}

// RSIValue returns the current BTC RSI for the given period. A
// non-positive period is a caller error and is surfaced; source failures
// degrade as usual.
func (s *Service) RSIValue(ctx context.Context, period int) (model.RSIResult, error) {
	if period <= 0 {
		return model.RSIResult{}, fmt.Errorf("%w: RSI period must be positive, got %d",
			calculator.ErrInvalidArgument, period)
	}
	days := period + 10 // a little slack beyond the warm-up
	value, prov := resolve(ctx, s, opRSI, s.cfg.TTL.RSI, []any{period},
		func(ctx context.Context) (float64, error) {
			points, err := s.prices.FetchDailyPrices(ctx, "BTC", days)
			if err != nil {
				return 0, err
			}
			v, err := calculator.RSI(closesOf(points), period, s.cfg.RSIMode)
			if err != nil {
				// The source answered with too few points to cover the
				// period; treat it like any other unusable payload.
				return 0, fmt.Errorf("%w: %v", collector.ErrMalformedResponse, err)
			}
			return v, nil
		},
		func() float64 {
			v, _ := calculator.RSI(closesOf(s.synth.PriceSeries("BTC", days)), period, s.cfg.RSIMode)
			return v
		})
	return model.RSIResult{Period: period, Value: value, Provenance: prov}, nil
}

// FundingRates returns annualized 7-day average funding for BTC and ETH.
func (s *Service) FundingRates(ctx context.Context) model.FundingRatesResult {
	rates, prov := resolve(ctx, s, opFunding, s.cfg.TTL.Funding, nil,
		func(ctx context.Context) (model.FundingRates, error) {
			btc, err := s.funding.FetchFundingRates(ctx, "BTCUSDT", fundingLookback)
			if err != nil {
				return model.FundingRates{}, err
			}
			eth, err := s.funding.FetchFundingRates(ctx, "ETHUSDT", fundingLookback)
			if err != nil {
				return model.FundingRates{}, err
			}
			return model.FundingRates{
				BTC: annualizeFunding(btc),
				ETH: annualizeFunding(eth),
			}, nil
		},
		s.synth.FundingRates)
	return model.FundingRatesResult{Rates: rates, Provenance: prov}
}

// ETFFlows returns the flow history and summary for one asset.
func (s *Service) ETFFlows(ctx context.Context, asset string) model.FlowSnapshotResult {
	snap, prov := resolve(ctx, s, opFlows, s.cfg.TTL.Flows, []any{asset},
		func(ctx context.Context) (*model.FlowSnapshot, error) {
			history, err := s.flows.FetchFlowHistory(ctx, asset)
			if err != nil {
				return nil, err
			}
			aum, err := s.flows.FetchTotalAUM(ctx, asset)
			if err != nil {
				return nil, err
			}
			return &model.FlowSnapshot{
				Asset:   asset,
				Summary: calculator.SummarizeFlows(history, aum),
				History: history,
			}, nil
		},
		func() *model.FlowSnapshot {
			history := s.synth.FlowHistory(asset, s.cfg.FlowDays)
			return &model.FlowSnapshot{
				Asset:   asset,
				Summary: calculator.SummarizeFlows(history, s.synth.TotalAUM(asset)),
				History: history,
			}
		})
	return model.FlowSnapshotResult{Snapshot: snap, Provenance: prov}
}

// indexBundle pairs the index series with its analysis so both live under
// one cache entry.
type indexBundle struct {
	Points   []model.IndexPoint
	Analysis model.IndexAnalysis
}

// DXY returns the dollar-index series with level/trend analysis.
func (s *Service) DXY(ctx context.Context, days int) model.IndexSeriesResult {
	bundle, prov := resolve(ctx, s, opIndex, s.cfg.TTL.Index, []any{days},
		func(ctx context.Context) (indexBundle, error) {
			points, err := s.fx.FetchDailyCloses(ctx, days)
			if err != nil {
				return indexBundle{}, err
			}
			return indexBundle{Points: points, Analysis: analyzeIndex(points)}, nil
		},
		func() indexBundle {
			points := s.synth.IndexSeries(days)
			return indexBundle{Points: points, Analysis: analyzeIndex(points)}
		})
	return model.IndexSeriesResult{Points: bundle.Points, Analysis: bundle.Analysis, Provenance: prov}
}

// Snapshot assembles everything one dashboard render needs. Each section
// goes through its own cache entry, so a warm cache makes this cheap.
func (s *Service) Snapshot(ctx context.Context) *model.Snapshot {
	snap := &model.Snapshot{
		Prices:      s.PriceHistory(ctx, "BTC", s.cfg.PriceDays),
		Quotes:      s.Quotes(ctx),
		Funding:     s.FundingRates(ctx),
		Flows:       make(map[string]model.FlowSnapshotResult, len(s.cfg.FlowAssets)),
		DXY:         s.DXY(ctx, s.cfg.IndexDays),
		GeneratedAt: time.Now().UTC(),
	}
	for _, period := range s.cfg.RSIPeriods {
		r, err := s.RSIValue(ctx, period)
		if err != nil {
			s.log.Warn("skipping RSI period", zap.Int("period", period), zap.Error(err))
			continue
		}
		snap.RSI = append(snap.RSI, r)
	}
	for _, asset := range s.cfg.FlowAssets {
		snap.Flows[asset] = s.ETFFlows(ctx, asset)
	}
	return snap
}

// CacheInfo exposes cache population counts for diagnostics.
func (s *Service) CacheInfo() cache.Stats {
	return s.cache.Info()
}

func (s *Service) buildSeries(asset string, points []model.PricePoint) *model.PriceSeries {
	series := &model.PriceSeries{
		Asset:     asset,
		Points:    points,
		MA:        make(map[int][]float64, len(s.cfg.MAWindows)),
		RSIPeriod: s.cfg.SeriesRSIPeriod,
		FetchedAt: time.Now().UTC(),
	}
	closes := series.Closes()
	for _, w := range s.cfg.MAWindows {
		col, _ := calculator.RollingAverage(closes, w)
		series.MA[w] = col
	}
	series.RSI, _ = calculator.RSISeries(closes, s.cfg.SeriesRSIPeriod, s.cfg.RSIMode)
	return series
}

func closesOf(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Price
	}
	return closes
}

// annualizeFunding converts a mean per-interval funding rate to an
// annualized percentage.
func annualizeFunding(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates)) * 100 * 24 * 365
}

func analyzeIndex(points []model.IndexPoint) model.IndexAnalysis {
	if len(points) == 0 {
		return model.IndexAnalysis{}
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	current := values[len(values)-1]
	daily := calculator.Change(values, 1)
	weekly := calculator.Change(values, weeklyLookback)
	imp := analysis.InterpretDXY(current, daily)
	return model.IndexAnalysis{
		Current:      current,
		DailyChange:  daily,
		WeeklyChange: weekly,
		Level:        imp.Level,
		Trend:        imp.Trend,
		CryptoImpact: imp.CryptoImpact,
	}
}
