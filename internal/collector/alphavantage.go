package collector

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"CryptoPulse/internal/model"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource implements FXSource using the Alpha Vantage daily
// FX series. The dollar index is approximated from the USD/EUR rate,
// scaled to the DXY base.
type AlphaVantageSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageSource creates an Alpha Vantage FX source with optional
// proxy support.
func NewAlphaVantageSource(baseURL, apiKey, proxyURL string, timeout time.Duration) *AlphaVantageSource {
	if baseURL == "" {
		baseURL = defaultAlphaVantageBaseURL
	}
	return &AlphaVantageSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (s *AlphaVantageSource) Name() string { return "alphavantage" }

// FetchDailyCloses returns index values for the trailing `days` window,
// ascending by date. The payload keys dates dynamically inside
// "Time Series (Daily)", so fields are extracted with gjson rather than a
// struct decode.
func (s *AlphaVantageSource) FetchDailyCloses(ctx context.Context, days int) ([]model.IndexPoint, error) {
	endpoint := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=USDEUR&apikey=%s", s.BaseURL, s.APIKey)

	body, err := getBody(ctx, s.Client, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage daily series: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}

	// Alpha Vantage reports quota exhaustion as a 200 with a Note or
	// Information field instead of the series.
	if note := gjson.GetBytes(body, "Note"); note.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, note.String())
	}
	if info := gjson.GetBytes(body, "Information"); info.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, info.String())
	}
	if errMsg := gjson.GetBytes(body, "Error Message"); errMsg.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, errMsg.String())
	}

	series := gjson.GetBytes(body, `Time Series (Daily)`)
	if !series.Exists() {
		return nil, fmt.Errorf("%w: missing daily series", ErrMalformedResponse)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	var points []model.IndexPoint
	var parseErr error
	series.ForEach(func(key, value gjson.Result) bool {
		date, err := time.Parse("2006-01-02", key.String())
		if err != nil {
			parseErr = fmt.Errorf("%w: bad date %q", ErrMalformedResponse, key.String())
			return false
		}
		if date.Before(cutoff) {
			return true
		}
		eurPerUSD := value.Get("4. close").Float()
		if eurPerUSD == 0 {
			return true // skip unusable closes
		}
		points = append(points, model.IndexPoint{
			Time:  date,
			Value: (1 / eurPerUSD) * 100, // scale to approximate DXY base
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no closes within %d days", ErrMalformedResponse, days)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}
