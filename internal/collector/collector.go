package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketMonitor/internal/model"
)

// Options configures a Collector.
type Options struct {
	ExchangeSuffix string         // appended to plain symbols, e.g. ".NS"
	Range          string         // lookback window, e.g. "5d"
	Interval       string         // bar interval, e.g. "1m"
	Location       *time.Location // exchange timezone bar times are expressed in
	ChartOffset    time.Duration  // shift applied to chart timestamps
}

// Collector fetches price series through a Fetcher and normalises them.
type Collector struct {
	Fetcher Fetcher
	opts    Options
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts Options) *Collector {
	if opts.Range == "" {
		opts.Range = "5d"
	}
	if opts.Interval == "" {
		opts.Interval = "1m"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Collector{Fetcher: fetcher, opts: opts}
}

// ProviderSymbol maps a watchlist symbol to the provider's notation. Index
// symbols (leading ^) and symbols that already carry an exchange suffix
// are used as is.
func (c *Collector) ProviderSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	suffix := strings.ToUpper(c.opts.ExchangeSuffix)
	if s == "" || strings.HasPrefix(s, "^") || suffix == "" || strings.Contains(s, ".") {
		return s
	}
	return s + suffix
}

// Series fetches the price series of symbol, ascending by time with no
// duplicate timestamps.
func (c *Collector) Series(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchBars(ctx, c.ProviderSymbol(symbol), c.opts.Range, c.opts.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      normalize(bars, c.opts.Location),
		FetchedAt: time.Now(),
	}, nil
}

// Chart returns the series of symbol shaped for the chart widget.
func (c *Collector) Chart(ctx context.Context, symbol string) ([]model.ChartPoint, error) {
	series, err := c.Series(ctx, symbol)
	if err != nil {
		return nil, err
	}
	offset := int64(c.opts.ChartOffset / time.Second)
	points := make([]model.ChartPoint, len(series.Bars))
	for i, b := range series.Bars {
		points[i] = model.ChartPoint{
			Time:  b.Time.Unix() + offset,
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		}
	}
	return points, nil
}

// DailyBar fetches the latest session bar of an index.
func (c *Collector) DailyBar(ctx context.Context, index string) (model.DailyBar, error) {
	return c.Fetcher.FetchDailyBar(ctx, c.ProviderSymbol(index))
}

// Quote fetches the last price and previous close of symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	return c.Fetcher.FetchQuote(ctx, c.ProviderSymbol(symbol))
}

// normalize sorts bars, drops duplicate timestamps keeping the last one
// received, and expresses times in loc.
func normalize(bars []model.OHLCV, loc *time.Location) []model.OHLCV {
	out := make([]model.OHLCV, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		b.Time = b.Time.In(loc)
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
