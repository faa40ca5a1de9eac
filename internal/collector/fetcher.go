package collector

import (
	"context"

	"MarketMonitor/internal/model"
)

// Fetcher defines the interface for fetching market data. Symbols passed
// to a Fetcher are already in the provider's notation.
type Fetcher interface {
	// FetchBars returns the bars of symbol over rng (e.g. "5d") at the given
	// bar interval (e.g. "1m"), in any order.
	FetchBars(ctx context.Context, symbol, rng, interval string) ([]model.OHLCV, error)
	// FetchDailyBar returns the open and last price of the most recent session.
	FetchDailyBar(ctx context.Context, symbol string) (model.DailyBar, error)
	// FetchQuote returns the last price and the previous session's close.
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	Name() string
}
