package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MarketBoard/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource implements Source using the keyless Yahoo Finance chart API.
// The chart metadata carries both the regular-market price and the previous
// close, so a single request per symbol suffices.
type YahooSource struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooSource creates a Yahoo Finance source with optional proxy support.
func NewYahooSource(baseURL, proxyURL string) *YahooSource {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo" }

// yahooChart is the subset of the chart API response we consume.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		y.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Quote{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return model.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, ErrRateLimited)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Quote{}, fmt.Errorf("yahoo read body %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, fmt.Errorf("yahoo quote %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.Quote{}, fmt.Errorf("yahoo decode %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return model.Quote{}, fmt.Errorf("yahoo api error %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return model.Quote{}, fmt.Errorf("yahoo quote %s: no data returned", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	var q model.Quote
	if meta.RegularMarketPrice != 0 {
		q.Current = ptr(meta.RegularMarketPrice)
	}
	if meta.ChartPreviousClose != 0 {
		q.PrevClose = ptr(meta.ChartPreviousClose)
	}
	if q.Current == nil && q.PrevClose == nil {
		return model.Quote{}, fmt.Errorf("yahoo quote %s: empty meta", symbol)
	}
	return q, nil
}
