package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CryptoPulse/internal/model"
)

// PriceSource provides crypto spot quotes and daily price history.
type PriceSource interface {
	FetchDailyPrices(ctx context.Context, asset string, days int) ([]model.PricePoint, error)
	FetchCurrentPrices(ctx context.Context) (map[string]model.AssetQuote, error)
	Name() string
}

// FundingSource provides periodic perp funding-rate observations,
// most recent last.
type FundingSource interface {
	FetchFundingRates(ctx context.Context, symbol string, limit int) ([]float64, error)
	Name() string
}

// FlowSource provides ETF flow history (most-recent-first) and total
// assets under management per asset.
type FlowSource interface {
	FetchFlowHistory(ctx context.Context, asset string) ([]model.FlowPoint, error)
	FetchTotalAUM(ctx context.Context, asset string) (float64, error)
	Name() string
}

// FXSource provides daily closes used to approximate a dollar-strength
// index.
type FXSource interface {
	FetchDailyCloses(ctx context.Context, days int) ([]model.IndexPoint, error)
	Name() string
}

// newHTTPClient builds an HTTP client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// maxBodyBytes caps how much of a response is read; none of the providers
// serve payloads anywhere near this for the windows requested.
const maxBodyBytes = 16 << 20

// getBody performs a single GET attempt (no retries) and classifies
// transport-level failures: HTTP 429 maps to ErrRateLimited, every other
// network or status failure to ErrSourceUnavailable. Error payloads are
// discarded without buffering.
func getBody(ctx context.Context, client *http.Client, endpoint string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status 429", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}
	return body, nil
}
