package quote

import (
	"context"
	"sync"

	"MarketBoard/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	mu     sync.Mutex
	Quotes map[string]model.Quote
	Errs   map[string]error
	Calls  []string
}

func NewMockSource() *MockSource {
	return &MockSource{
		Quotes: make(map[string]model.Quote),
		Errs:   make(map[string]error),
	}
}

func (m *MockSource) Name() string { return "mock" }

// Set configures the quote returned for symbol. Use NaN-free values; pass a
// negative prevClose to omit it.
func (m *MockSource) Set(symbol string, current, prevClose float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := model.Quote{Current: ptr(current)}
	if prevClose >= 0 {
		q.PrevClose = ptr(prevClose)
	}
	m.Quotes[symbol] = q
}

// Fail makes fetches for symbol return err.
func (m *MockSource) Fail(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errs[symbol] = err
}

func (m *MockSource) Quote(_ context.Context, symbol string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errs[symbol]; ok {
		return model.Quote{}, err
	}
	return m.Quotes[symbol], nil
}
