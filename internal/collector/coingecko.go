package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CryptoPulse/internal/model"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoSource implements PriceSource using the CoinGecko REST API.
type CoinGeckoSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	AssetID map[string]string // maps internal symbol to CoinGecko coin id
}

// NewCoinGeckoSource creates a CoinGecko price source with optional proxy
// support. An empty API key uses the anonymous quota.
func NewCoinGeckoSource(baseURL, apiKey, proxyURL string, timeout time.Duration) *CoinGeckoSource {
	if baseURL == "" {
		baseURL = defaultCoinGeckoBaseURL
	}
	return &CoinGeckoSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		AssetID: map[string]string{
			"BTC": "bitcoin",
			"ETH": "ethereum",
		},
	}
}

func (s *CoinGeckoSource) Name() string { return "coingecko" }

func (s *CoinGeckoSource) headers() map[string]string {
	if s.APIKey == "" {
		return nil
	}
	return map[string]string{"x-cg-demo-api-key": s.APIKey}
}

func (s *CoinGeckoSource) coinID(asset string) (string, error) {
	id, ok := s.AssetID[asset]
	if !ok {
		return "", fmt.Errorf("%w: unknown asset %q", ErrMalformedResponse, asset)
	}
	return id, nil
}

// FetchDailyPrices returns up to `days` daily closes, ascending by time.
func (s *CoinGeckoSource) FetchDailyPrices(ctx context.Context, asset string, days int) ([]model.PricePoint, error) {
	id, err := s.coinID(asset)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		s.BaseURL, url.PathEscape(id), days)

	body, err := getBody(ctx, s.Client, endpoint, s.headers())
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart: %w", err)
	}

	var chart struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: decode market_chart: %v", ErrMalformedResponse, err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("%w: no price data returned", ErrMalformedResponse)
	}

	points := make([]model.PricePoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: price entry with %d fields", ErrMalformedResponse, len(pair))
		}
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(int64(pair[0])).UTC(),
			Price: pair[1],
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	// Drop duplicate timestamps, keeping the latest observation.
	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(p.Time) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	if len(deduped) > days {
		deduped = deduped[len(deduped)-days:]
	}
	return deduped, nil
}

// FetchCurrentPrices returns spot quotes with 24h changes for BTC and ETH.
func (s *CoinGeckoSource) FetchCurrentPrices(ctx context.Context) (map[string]model.AssetQuote, error) {
	endpoint := s.BaseURL + "/simple/price?ids=bitcoin,ethereum&vs_currencies=usd&include_24hr_change=true"

	body, err := getBody(ctx, s.Client, endpoint, s.headers())
	if err != nil {
		return nil, fmt.Errorf("coingecko simple/price: %w", err)
	}

	var raw map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode simple/price: %v", ErrMalformedResponse, err)
	}

	quotes := make(map[string]model.AssetQuote, len(s.AssetID))
	for symbol, id := range s.AssetID {
		q, ok := raw[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing quote for %s", ErrMalformedResponse, id)
		}
		quotes[symbol] = model.AssetQuote{Price: q.USD, Change24h: q.Change24h}
	}
	return quotes, nil
}
