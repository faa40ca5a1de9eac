package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/collector"
	"MarketMonitor/internal/config"
	"MarketMonitor/internal/httpclient"
	"MarketMonitor/internal/market"
	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/news"
	"MarketMonitor/internal/sector"
	"MarketMonitor/internal/strategy"
)

// mockPrice is the price level of generated offline bars.
const mockPrice = 1000

// app holds the wired components shared by every command.
type app struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	collector *collector.Collector
	evaluator *strategy.Evaluator
	market    *market.Provider
	news      *news.Client // nil when news is disabled
}

func newApp(cfg *config.Config) (*app, error) {
	m := metrics.New()
	guardOpts := func() httpclient.Options {
		return httpclient.Options{
			Timeout:   cfg.HTTP.Timeout,
			Proxy:     cfg.Proxy,
			RateLimit: cfg.HTTP.RateLimit,
			Burst:     cfg.HTTP.Burst,
			Metrics:   m,
		}
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, httpclient.New("yahoo", guardOpts()))
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, httpclient.New("rest", guardOpts()))
	case "mock":
		fetcher = &collector.MockFetcher{Price: mockPrice}
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource.Provider)
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source selected")

	col := collector.NewCollector(fetcher, collector.Options{
		ExchangeSuffix: cfg.DataSource.ExchangeSuffix,
		Range:          cfg.DataSource.Range,
		Interval:       cfg.DataSource.Interval,
		Location:       cfg.Location(),
		ChartOffset:    cfg.ChartOffset(),
	})
	sectors := sector.NewResolver(col, cfg.Sector.FallbackIndex, cfg.Sector.Overrides, m)

	a := &app{
		cfg:       cfg,
		metrics:   m,
		collector: col,
		evaluator: strategy.NewEvaluator(col, sectors, m),
		market:    market.NewProvider(col, cfg.Market.Indices, m),
	}
	if cfg.News.Enabled {
		a.news = news.NewClient(httpclient.New("news", guardOpts()), news.Options{
			BaseURL: cfg.News.BaseURL,
			Limit:   cfg.News.Limit,
			HL:      cfg.News.HL,
			GL:      cfg.News.GL,
			CEID:    cfg.News.CEID,
		}, m)
	}
	return a, nil
}
