package collector

import (
	"context"
	"errors"
	"time"

	"MarketMonitor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Bars    map[string][]model.OHLCV // per provider symbol; generated when absent
	Daily   map[string]model.DailyBar
	Quotes  map[string]model.Quote
	Failing map[string]bool // symbols whose calls fail
	Err     error           // returned by every call when set
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) fail(symbol string) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Failing[symbol] {
		return errors.New("mock: " + symbol + " unavailable")
	}
	return nil
}

func (m *MockFetcher) FetchBars(_ context.Context, symbol, _, _ string) ([]model.OHLCV, error) {
	if err := m.fail(symbol); err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, 120), nil
}

func (m *MockFetcher) FetchDailyBar(_ context.Context, symbol string) (model.DailyBar, error) {
	if err := m.fail(symbol); err != nil {
		return model.DailyBar{}, err
	}
	if d, ok := m.Daily[symbol]; ok {
		return d, nil
	}
	return model.DailyBar{Open: m.Price, Close: m.Price}, nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	if err := m.fail(symbol); err != nil {
		return model.Quote{}, err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return model.Quote{LastPrice: m.Price, PreviousClose: m.Price}, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	start := time.Now().Truncate(time.Minute).Add(-time.Duration(count) * time.Minute)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
