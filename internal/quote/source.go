// Package quote fetches (current price, previous close) pairs for single
// symbols. Every provider failure stays behind the Source boundary: the
// scheduler maps errors to absent prices and keeps going.
package quote

import (
	"context"
	"errors"

	"MarketBoard/internal/model"
)

// ErrRateLimited marks an explicit provider rate-limit response. It is
// treated as silent no-data for the tick, not as a reason to back off.
var ErrRateLimited = errors.New("quote source rate limited")

// Source fetches one symbol's quote.
type Source interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	Name() string
}

func ptr(v float64) *float64 { return &v }
