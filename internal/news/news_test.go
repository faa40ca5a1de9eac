package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMonitor/internal/httpclient"
)

var now = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

func TestAgeLabel(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{-time.Minute, "just now"},
		{time.Minute, "1m ago"},
		{59*time.Minute + 59*time.Second, "59m ago"},
		{time.Hour, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{75 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeLabel(now, now.Add(-tt.ago)), "%v", tt.ago)
	}
	assert.Equal(t, "just now", AgeLabel(now, time.Time{}))
}

func feed(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>News</title>`)
	for i := 0; i < n; i++ {
		pub := now.Add(-time.Duration(i*7) * time.Minute).Format(time.RFC1123Z)
		fmt.Fprintf(&b, `<item><title>Headline %d - Mint</title><link>https://example.com/%d</link><pubDate>%s</pubDate><source url="https://livemint.com">Mint</source></item>`, i, i, pub)
	}
	b.WriteString(`<item><title>Undated</title><link>https://example.com/u</link></item>`)
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func newTestClient(url string) *Client {
	guard := httpclient.New("news", httpclient.Options{Timeout: time.Second})
	c := NewClient(guard, Options{BaseURL: url, HL: "en-IN", GL: "IN", CEID: "IN:en"}, nil)
	c.now = func() time.Time { return now }
	return c
}

func TestSearch(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(feed(9)))
	}))
	defer srv.Close()

	items := newTestClient(srv.URL).Search(context.Background(), SymbolQuery("TCS"))
	require.Len(t, items, DefaultLimit)
	assert.Equal(t, "Headline 0 - Mint", items[0].Title)
	assert.Equal(t, "Mint", items[0].Source)
	assert.Equal(t, "just now", items[0].Age)
	assert.Equal(t, "7m ago", items[1].Age)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].PublishedAt.After(items[i-1].PublishedAt), "newest first")
	}

	assert.Contains(t, query, "q=TCS+stock+news")
	assert.Contains(t, query, "ceid=IN%3Aen")
	assert.Contains(t, query, "hl=en-IN")
	assert.Contains(t, query, fmt.Sprintf("t=%d", now.Unix()))
}

func TestSearch_UndatedSortsLast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed(2)))
	}))
	defer srv.Close()

	items := newTestClient(srv.URL).Search(context.Background(), "Indian Stock Market")
	require.Len(t, items, 3)
	assert.Equal(t, "Undated", items[2].Title)
	assert.Equal(t, "just now", items[2].Age)
}

func TestSearch_FailuresYieldEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			w.Write([]byte("<html>not a feed"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	down := c.Search(context.Background(), "down")
	assert.NotNil(t, down)
	assert.Empty(t, down)
	assert.Empty(t, c.Search(context.Background(), "broken"))
}
