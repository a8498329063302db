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

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubSource implements Source using the Finnhub quote endpoint.
type FinnhubSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFinnhubSource creates a Finnhub source with optional proxy support.
// baseURL is overridable for tests; empty selects the public API.
func NewFinnhubSource(apiKey, baseURL, proxyURL string) *FinnhubSource {
	if baseURL == "" {
		baseURL = defaultFinnhubBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FinnhubSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FinnhubSource) Name() string { return "finnhub" }

// finnhubQuote is the /quote response: c = current, pc = previous close.
// Finnhub reports zeros for unknown symbols.
type finnhubQuote struct {
	Current   float64 `json:"c"`
	PrevClose float64 `json:"pc"`
}

func (f *FinnhubSource) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(f.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Quote{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return model.Quote{}, fmt.Errorf("finnhub quote %s: %w", symbol, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Quote{}, fmt.Errorf("finnhub quote %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	var fq finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&fq); err != nil {
		return model.Quote{}, fmt.Errorf("finnhub decode %s: %w", symbol, err)
	}
	if fq.Current == 0 && fq.PrevClose == 0 {
		return model.Quote{}, fmt.Errorf("finnhub quote %s: no data", symbol)
	}

	var q model.Quote
	if fq.Current != 0 {
		q.Current = ptr(fq.Current)
	}
	if fq.PrevClose != 0 {
		q.PrevClose = ptr(fq.PrevClose)
	}
	return q, nil
}
