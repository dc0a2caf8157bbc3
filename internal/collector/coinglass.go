package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"CryptoPulse/internal/model"
)

const defaultCoinGlassBaseURL = "https://open-api-v4.coinglass.com"

// CoinGlassSource implements FlowSource using the CoinGlass v4 ETF API.
type CoinGlassSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	AssetID map[string]string
}

// NewCoinGlassSource creates a CoinGlass ETF-flow source with optional
// proxy support.
func NewCoinGlassSource(baseURL, apiKey, proxyURL string, timeout time.Duration) *CoinGlassSource {
	if baseURL == "" {
		baseURL = defaultCoinGlassBaseURL
	}
	return &CoinGlassSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		AssetID: map[string]string{
			"BTC": "bitcoin",
			"ETH": "ethereum",
		},
	}
}

func (s *CoinGlassSource) Name() string { return "coinglass" }

func (s *CoinGlassSource) headers() map[string]string {
	return map[string]string{"CG-API-KEY": s.APIKey}
}

func (s *CoinGlassSource) assetPath(asset string) (string, error) {
	id, ok := s.AssetID[asset]
	if !ok {
		return "", fmt.Errorf("%w: unknown asset %q", ErrMalformedResponse, asset)
	}
	return id, nil
}

// checkEnvelope validates the provider's {code, msg} envelope. CoinGlass
// signals a plan restriction with code "400" / msg "Upgrade plan" on an
// otherwise successful HTTP response; that is a rate limit, not an outage.
func checkEnvelope(code, msg string) error {
	if code == "0" {
		return nil
	}
	if code == "400" && msg == "Upgrade plan" {
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	}
	return fmt.Errorf("%w: api code %s: %s", ErrSourceUnavailable, code, msg)
}

// FetchFlowHistory returns per-day ETF flow records, most recent first.
func (s *CoinGlassSource) FetchFlowHistory(ctx context.Context, asset string) ([]model.FlowPoint, error) {
	id, err := s.assetPath(asset)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/api/etf/%s/flow-history", s.BaseURL, id)

	body, err := getBody(ctx, s.Client, endpoint, s.headers())
	if err != nil {
		return nil, fmt.Errorf("coinglass flow-history: %w", err)
	}

	var resp struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			Timestamp int64   `json:"timestamp"`
			FlowUSD   float64 `json:"flow_usd"`
			PriceUSD  float64 `json:"price_usd"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode flow-history: %v", ErrMalformedResponse, err)
	}
	if err := checkEnvelope(resp.Code, resp.Msg); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty flow history for %s", ErrMalformedResponse, asset)
	}

	history := make([]model.FlowPoint, len(resp.Data))
	for i, d := range resp.Data {
		history[i] = model.FlowPoint{
			Time:     time.UnixMilli(d.Timestamp).UTC(),
			FlowUSD:  d.FlowUSD,
			PriceUSD: d.PriceUSD,
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Time.After(history[j].Time) })
	return history, nil
}

// FetchTotalAUM sums assets under management across the asset's ETF list.
func (s *CoinGlassSource) FetchTotalAUM(ctx context.Context, asset string) (float64, error) {
	id, err := s.assetPath(asset)
	if err != nil {
		return 0, err
	}
	endpoint := fmt.Sprintf("%s/api/etf/%s/list", s.BaseURL, id)

	body, err := getBody(ctx, s.Client, endpoint, s.headers())
	if err != nil {
		return 0, fmt.Errorf("coinglass list: %w", err)
	}

	var resp struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			AUMUSD float64 `json:"aum_usd"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: decode list: %v", ErrMalformedResponse, err)
	}
	if err := checkEnvelope(resp.Code, resp.Msg); err != nil {
		return 0, err
	}

	var total float64
	for _, d := range resp.Data {
		total += d.AUMUSD
	}
	return total, nil
}
