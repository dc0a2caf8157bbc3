package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultBinanceBaseURL = "https://fapi.binance.com"

// BinanceSource implements FundingSource using the Binance futures API.
type BinanceSource struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceSource creates a Binance funding-rate source with optional
// proxy support.
func NewBinanceSource(baseURL, proxyURL string, timeout time.Duration) *BinanceSource {
	if baseURL == "" {
		baseURL = defaultBinanceBaseURL
	}
	return &BinanceSource{
		BaseURL: baseURL,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (s *BinanceSource) Name() string { return "binance" }

// FetchFundingRates returns the last `limit` 8-hour funding observations
// for a perp symbol, oldest first. Binance encodes rates as strings.
func (s *BinanceSource) FetchFundingRates(ctx context.Context, symbol string, limit int) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/fapi/v1/fundingRate?symbol=%s&limit=%d", s.BaseURL, symbol, limit)

	body, err := getBody(ctx, s.Client, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("binance fundingRate: %w", err)
	}

	var raw []struct {
		FundingRate string `json:"fundingRate"`
		FundingTime int64  `json:"fundingTime"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode fundingRate: %v", ErrMalformedResponse, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no funding observations for %s", ErrMalformedResponse, symbol)
	}

	rates := make([]float64, len(raw))
	for i, r := range raw {
		v, err := strconv.ParseFloat(r.FundingRate, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: funding rate %q: %v", ErrMalformedResponse, r.FundingRate, err)
		}
		rates[i] = v
	}
	return rates, nil
}
