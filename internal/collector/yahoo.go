package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Guard   *httpclient.Guard
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. An empty baseURL
// selects the public endpoint.
func NewYahooFetcher(baseURL string, guard *httpclient.Guard) *YahooFetcher {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooFetcher{BaseURL: baseURL, Guard: guard}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
// Price arrays contain nulls for bars without trades.
type yahooChart struct {
	Chart struct {
		Result []yahooResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		PreviousClose      float64 `json:"previousClose"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

func value(vs []*float64, i int) (float64, bool) {
	if i >= len(vs) || vs[i] == nil {
		return 0, false
	}
	return *vs[i], true
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	body, err := f.Guard.Get(ctx, u, http.Header{"User-Agent": {"Mozilla/5.0"}})
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}
	return &chart.Chart.Result[0], nil
}

func (r *yahooResult) bars() []model.OHLCV {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	quote := r.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(r.Timestamp))

	for i, ts := range r.Timestamp {
		o, okO := value(quote.Open, i)
		h, okH := value(quote.High, i)
		l, okL := value(quote.Low, i)
		c, okC := value(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue // incomplete or empty bar
		}
		v, _ := value(quote.Volume, i)
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol, rng, interval string) ([]model.OHLCV, error) {
	res, err := f.fetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}
	return res.bars(), nil
}

func (f *YahooFetcher) FetchDailyBar(ctx context.Context, symbol string) (model.DailyBar, error) {
	res, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return model.DailyBar{}, err
	}
	bars := res.bars()
	if len(bars) == 0 {
		return model.DailyBar{}, fmt.Errorf("yahoo: no daily bar for %s", symbol)
	}
	last := bars[len(bars)-1]
	return model.DailyBar{Open: last.Open, Close: last.Close}, nil
}

func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	res, err := f.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return model.Quote{}, err
	}

	q := model.Quote{LastPrice: res.Meta.RegularMarketPrice, PreviousClose: res.Meta.PreviousClose}
	bars := res.bars()
	if q.LastPrice == 0 && len(bars) > 0 {
		q.LastPrice = bars[len(bars)-1].Close
	}
	if q.PreviousClose == 0 && len(bars) > 1 {
		q.PreviousClose = bars[len(bars)-2].Close
	}
	if q.PreviousClose == 0 {
		q.PreviousClose = res.Meta.ChartPreviousClose
	}
	if q.LastPrice == 0 {
		return model.Quote{}, fmt.Errorf("yahoo: no price data for %s", symbol)
	}
	return q, nil
}
