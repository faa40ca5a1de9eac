package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars/quote REST API:
//
//	GET {base}/api/v1/bars?symbol=&range=&interval=  -> [{timestamp, open, high, low, close, volume}]
//	GET {base}/api/v1/quote?symbol=                  -> {price, previous_close}
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Guard   *httpclient.Guard
}

// NewRESTFetcher creates a new REST fetcher.
func NewRESTFetcher(baseURL, apiKey string, guard *httpclient.Guard) *RESTFetcher {
	return &RESTFetcher{BaseURL: baseURL, APIKey: apiKey, Guard: guard}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) header() http.Header {
	h := http.Header{}
	if f.APIKey != "" {
		h.Set("Authorization", "Bearer "+f.APIKey)
	}
	return h
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol, rng, interval string) ([]model.OHLCV, error) {
	q := url.Values{"symbol": {symbol}, "range": {rng}, "interval": {interval}}
	body, err := f.Guard.Get(ctx, f.BaseURL+"/api/v1/bars?"+q.Encode(), f.header())
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	var raw []restBar
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *RESTFetcher) FetchDailyBar(ctx context.Context, symbol string) (model.DailyBar, error) {
	// Try daily bars first; if the API only serves intraday, aggregate the last session.
	bars, err := f.FetchBars(ctx, symbol, "1d", "1d")
	if err != nil || len(bars) == 0 {
		log.Debug().Err(err).Str("symbol", symbol).Msg("daily bars unavailable, aggregating intraday")
		intraday, intradayErr := f.FetchBars(ctx, symbol, "1d", "1m")
		if intradayErr != nil {
			return model.DailyBar{}, fmt.Errorf("daily fetch failed: %v; intraday fallback also failed: %w", err, intradayErr)
		}
		bars = aggregateSessions(intraday)
	}
	if len(bars) == 0 {
		return model.DailyBar{}, fmt.Errorf("no daily bar for %s", symbol)
	}
	last := bars[len(bars)-1]
	return model.DailyBar{Open: last.Open, Close: last.Close}, nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	q := url.Values{"symbol": {symbol}}
	body, err := f.Guard.Get(ctx, f.BaseURL+"/api/v1/quote?"+q.Encode(), f.header())
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	var result struct {
		Price         float64 `json:"price"`
		PreviousClose float64 `json:"previous_close"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return model.Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	return model.Quote{LastPrice: result.Price, PreviousClose: result.PreviousClose}, nil
}

// aggregateSessions converts ascending intraday bars into one bar per calendar day.
func aggregateSessions(bars []model.OHLCV) []model.OHLCV {
	if len(bars) == 0 {
		return nil
	}
	var daily []model.OHLCV
	day := bars[0]

	for _, b := range bars[1:] {
		y1, m1, d1 := day.Time.Date()
		y2, m2, d2 := b.Time.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			daily = append(daily, day)
			day = b
			continue
		}
		if b.High > day.High {
			day.High = b.High
		}
		if b.Low < day.Low {
			day.Low = b.Low
		}
		day.Close = b.Close
		day.Volume += b.Volume
	}
	return append(daily, day)
}
