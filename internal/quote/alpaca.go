package quote

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"MarketBoard/internal/model"
)

// AlpacaSource implements Source using the Alpaca market-data snapshot API:
// latest trade for the current price, previous daily bar for the close.
type AlpacaSource struct {
	client *marketdata.Client
}

// NewAlpacaSource creates an Alpaca source from API credentials. dataURL is
// optional and selects a non-default data endpoint.
func NewAlpacaSource(apiKey, apiSecret, dataURL string) *AlpacaSource {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaSource{client: marketdata.NewClient(opts)}
}

func (a *AlpacaSource) Name() string { return "alpaca" }

func (a *AlpacaSource) Quote(_ context.Context, symbol string) (model.Quote, error) {
	snap, err := a.client.GetSnapshot(symbol, marketdata.GetSnapshotRequest{})
	if err != nil {
		return model.Quote{}, fmt.Errorf("alpaca snapshot %s: %w", symbol, err)
	}
	if snap == nil {
		return model.Quote{}, fmt.Errorf("alpaca snapshot %s: no data", symbol)
	}

	var q model.Quote
	if snap.LatestTrade != nil && snap.LatestTrade.Price != 0 {
		q.Current = ptr(snap.LatestTrade.Price)
	}
	if snap.PrevDailyBar != nil && snap.PrevDailyBar.Close != 0 {
		q.PrevClose = ptr(snap.PrevDailyBar.Close)
	}
	if q.Current == nil && q.PrevClose == nil {
		return model.Quote{}, fmt.Errorf("alpaca snapshot %s: empty", symbol)
	}
	return q, nil
}
