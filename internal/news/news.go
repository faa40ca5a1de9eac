package news

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/model"
)

// DefaultLimit is the number of headlines returned per query.
const DefaultLimit = 6

// Options configures the Google News RSS search.
type Options struct {
	BaseURL string
	Limit   int
	HL      string // interface language, e.g. en-IN
	GL      string // country, e.g. IN
	CEID    string // edition, e.g. IN:en
}

// Client searches headlines. Failures never reach the caller.
type Client struct {
	guard   *httpclient.Guard
	opts    Options
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewClient creates a Client.
func NewClient(guard *httpclient.Guard, opts Options, m *metrics.Metrics) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://news.google.com/rss/search"
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Client{guard: guard, opts: opts, metrics: m, now: time.Now}
}

// SymbolQuery is the per-instrument news query.
func SymbolQuery(symbol string) string {
	return symbol + " stock news"
}

func (c *Client) searchURL(query string) string {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", c.opts.HL)
	q.Set("gl", c.opts.GL)
	q.Set("ceid", c.opts.CEID)
	q.Set("t", strconv.FormatInt(c.now().Unix(), 10)) // defeats intermediate caches
	return c.opts.BaseURL + "?" + q.Encode()
}

// Search returns up to Limit headlines for query, newest first. On any
// failure it returns an empty list.
func (c *Client) Search(ctx context.Context, query string) []model.NewsItem {
	items, err := c.search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("news unavailable")
		c.metrics.Degrade("news")
		return []model.NewsItem{}
	}
	return items
}

func (c *Client) search(ctx context.Context, query string) ([]model.NewsItem, error) {
	body, err := c.guard.Get(ctx, c.searchURL(query), http.Header{"User-Agent": {"Mozilla/5.0"}})
	if err != nil {
		return nil, err
	}

	fp := rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	now := c.now()
	items := make([]model.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := model.NewsItem{Title: strings.TrimSpace(it.Title), Link: it.Link}
		if it.Source != nil {
			item.Source = it.Source.Title
		}
		if it.PubDateParsed != nil {
			item.PublishedAt = *it.PubDateParsed
		}
		item.Age = AgeLabel(now, item.PublishedAt)
		items = append(items, item)
	}

	// Undated items sort last.
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt.After(items[j].PublishedAt) })
	if len(items) > c.opts.Limit {
		items = items[:c.opts.Limit]
	}
	return items, nil
}

// AgeLabel renders how long ago t was: "just now" under a minute (or when t
// is unknown), then "Nm ago", "Nh ago" and "Nd ago".
func AgeLabel(now, t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
