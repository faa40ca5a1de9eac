package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMonitor/internal/collector"
	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/model"
)

var indices = []model.IndexRef{
	{Name: "NIFTY 50", Symbol: "^NSEI"},
	{Name: "NIFTY BANK", Symbol: "^NSEBANK"},
	{Name: "SENSEX", Symbol: "^BSESN"},
}

func TestSnapshot(t *testing.T) {
	src := &collector.MockFetcher{Quotes: map[string]model.Quote{
		"^NSEI":    {LastPrice: 22500, PreviousClose: 22400},
		"^NSEBANK": {LastPrice: 48000, PreviousClose: 48400},
		"^BSESN":   {LastPrice: 74000, PreviousClose: 74000},
	}}
	quotes := NewProvider(collector.NewCollector(src, collector.Options{}), indices, nil).Snapshot(context.Background())

	require.Len(t, quotes, 3)
	assert.Equal(t, "NIFTY 50", quotes[0].Name)
	assert.InDelta(t, 100, quotes[0].Change, 1e-9)
	assert.InDelta(t, 100.0/22400*100, quotes[0].ChangePct, 1e-9)
	assert.InDelta(t, -400, quotes[1].Change, 1e-9)
	assert.Equal(t, 0.0, quotes[2].ChangePct)
}

func TestSnapshot_PartialResults(t *testing.T) {
	src := &collector.MockFetcher{
		Quotes: map[string]model.Quote{
			"^NSEI":  {LastPrice: 22500, PreviousClose: 0},
			"^BSESN": {LastPrice: 74100, PreviousClose: 74000},
		},
		Failing: map[string]bool{"^NSEBANK": true},
	}
	quotes := NewProvider(collector.NewCollector(src, collector.Options{}), indices, nil).Snapshot(context.Background())

	require.Len(t, quotes, 1)
	assert.Equal(t, "^BSESN", quotes[0].Symbol)
}

func TestSnapshot_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "NSEBANK") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":22500,"previousClose":22400},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	}))
	defer srv.Close()

	guard := httpclient.New("yahoo", httpclient.Options{Timeout: time.Second})
	c := collector.NewCollector(collector.NewYahooFetcher(srv.URL, guard), collector.Options{ExchangeSuffix: ".NS"})
	quotes := NewProvider(c, indices[:2], nil).Snapshot(context.Background())

	require.Len(t, quotes, 1)
	assert.Equal(t, "^NSEI", quotes[0].Symbol)
	assert.Equal(t, 22500.0, quotes[0].Price)
}

func TestSnapshot_Empty(t *testing.T) {
	src := &collector.MockFetcher{Err: assert.AnError}
	assert.Empty(t, NewProvider(collector.NewCollector(src, collector.Options{}), indices, nil).Snapshot(context.Background()))
}
