package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/model"
)

const yahooFixture = `{"chart":{"result":[{
  "meta":{"symbol":"TCS.NS","regularMarketPrice":3512.5,"previousClose":3490.0,"chartPreviousClose":3400.0},
  "timestamp":[1741000000,1741000060,1741000120,1741000150,1741000180],
  "indicators":{"quote":[{
    "open":[3500.0,null,3502.0,3506.0,3505.0],
    "high":[3503.0,null,3506.0,3508.0,3513.0],
    "low":[3498.0,null,3501.0,3504.5,3504.0],
    "close":[3502.0,null,3505.0,null,3512.5],
    "volume":[1200,null,900,300,1500]
  }]}
}],"error":null}}`

func testGuard() *httpclient.Guard {
	return httpclient.New("test", httpclient.Options{Timeout: time.Second})
}

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, testGuard())
	bars, err := f.FetchBars(context.Background(), "TCS.NS", "5d", "1m")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/TCS.NS", gotPath)
	assert.Equal(t, "interval=1m&range=5d", gotQuery)
	require.Len(t, bars, 3, "empty and partial rows dropped")
	assert.Equal(t, 3512.5, bars[2].Close)
	assert.Equal(t, 900.0, bars[1].Volume)
	for _, b := range bars {
		assert.NotZero(t, b.Close)
		assert.NotEqual(t, int64(1741000150), b.Time.Unix(), "bar with a null close must be skipped")
	}
}

func TestYahooFetcher_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	q, err := NewYahooFetcher(srv.URL, testGuard()).FetchQuote(context.Background(), "^NSEI")
	require.NoError(t, err)
	assert.Equal(t, model.Quote{LastPrice: 3512.5, PreviousClose: 3490}, q)
}

func TestYahooFetcher_DailyBar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	d, err := NewYahooFetcher(srv.URL, testGuard()).FetchDailyBar(context.Background(), "^CNXIT")
	require.NoError(t, err)
	assert.Equal(t, model.DailyBar{Open: 3505, Close: 3512.5}, d)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, testGuard()).FetchBars(context.Background(), "NOPE.NS", "5d", "1m")
	assert.ErrorContains(t, err, "delisted")
}

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/bars":
			if r.URL.Query().Get("interval") == "1d" {
				http.Error(w, "unsupported", http.StatusBadRequest)
				return
			}
			w.Write([]byte(`[
				{"timestamp":1741000120,"open":12,"high":14,"low":11,"close":13,"volume":5},
				{"timestamp":1741000060,"open":10,"high":12,"low":9,"close":11,"volume":7}
			]`))
		case "/api/v1/quote":
			w.Write([]byte(`{"price":13,"previous_close":12.5}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", testGuard())
	ctx := context.Background()

	bars, err := f.FetchBars(ctx, "INFY.NS", "5d", "1m")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close, "sorted ascending")

	q, err := f.FetchQuote(ctx, "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, model.Quote{LastPrice: 13, PreviousClose: 12.5}, q)

	d, err := f.FetchDailyBar(ctx, "^CNXIT")
	require.NoError(t, err)
	assert.Equal(t, model.DailyBar{Open: 10, Close: 13}, d, "aggregated from intraday bars")
}

func TestAggregateSessions(t *testing.T) {
	d1 := time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	daily := aggregateSessions([]model.OHLCV{
		{Time: d1, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1},
		{Time: d1.Add(time.Hour), Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 2},
		{Time: d2, Open: 11, High: 11.2, Low: 8, Close: 9, Volume: 4},
	})
	require.Len(t, daily, 2)
	assert.Equal(t, model.OHLCV{Time: d1, Open: 10, High: 12, Low: 9, Close: 11.5, Volume: 3}, daily[0])
	assert.Equal(t, 8.0, daily[1].Low)
}

func TestCollector_ProviderSymbol(t *testing.T) {
	c := NewCollector(&MockFetcher{}, Options{ExchangeSuffix: ".NS"})
	cases := map[string]string{
		"tcs":        "TCS.NS",
		" RELIANCE ": "RELIANCE.NS",
		"INFY.NS":    "INFY.NS",
		"SBIN.BO":    "SBIN.BO",
		"^NSEI":      "^NSEI",
		"M&M":        "M&M.NS",
	}
	for in, want := range cases {
		assert.Equal(t, want, c.ProviderSymbol(in), in)
	}
}

func TestCollector_SeriesNormalizes(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	base := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{
		"TCS.NS": {
			{Time: base.Add(2 * time.Minute), Close: 3},
			{Time: base, Close: 1},
			{Time: base.Add(time.Minute), Close: 2},
			{Time: base.Add(time.Minute), Close: 2.5},
		},
	}}
	c := NewCollector(mock, Options{ExchangeSuffix: ".NS", Location: ist})

	series, err := c.Series(context.Background(), "TCS")
	require.NoError(t, err)
	require.Len(t, series.Bars, 3)
	assert.Equal(t, []float64{1, 2.5, 3}, []float64{series.Bars[0].Close, series.Bars[1].Close, series.Bars[2].Close})
	assert.Equal(t, ist, series.Bars[0].Time.Location())
	assert.Equal(t, "TCS", series.Symbol)
}

func TestCollector_Chart(t *testing.T) {
	ts := time.Unix(1741000000, 0)
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"BSE.NS": {{Time: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5}}}}
	c := NewCollector(mock, Options{ExchangeSuffix: ".NS", ChartOffset: 19800 * time.Second})

	points, err := c.Chart(context.Background(), "BSE")
	require.NoError(t, err)
	assert.Equal(t, []model.ChartPoint{{Time: 1741000000 + 19800, Open: 1, High: 2, Low: 0.5, Close: 1.5}}, points)
}

func TestCollector_SeriesError(t *testing.T) {
	c := NewCollector(&MockFetcher{Failing: map[string]bool{"TCS.NS": true}}, Options{ExchangeSuffix: ".NS"})
	_, err := c.Series(context.Background(), "TCS")
	assert.Error(t, err)
}
