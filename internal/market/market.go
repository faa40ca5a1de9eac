package market

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/model"
)

// QuoteSource fetches the last price and previous close of an index.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

// Provider builds snapshots of a fixed set of reference indices.
type Provider struct {
	source  QuoteSource
	indices []model.IndexRef
	metrics *metrics.Metrics
}

// NewProvider creates a Provider for indices.
func NewProvider(source QuoteSource, indices []model.IndexRef, m *metrics.Metrics) *Provider {
	return &Provider{source: source, indices: indices, metrics: m}
}

// Snapshot quotes every index concurrently. Indices that fail, or whose
// previous close is unknown, are left out; the result keeps the configured
// order and may be empty.
func (p *Provider) Snapshot(ctx context.Context) []model.IndexQuote {
	results := make([]*model.IndexQuote, len(p.indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, idx := range p.indices {
		g.Go(func() error {
			q, err := p.source.Quote(gctx, idx.Symbol)
			if err != nil || q.PreviousClose == 0 {
				log.Warn().Err(err).Str("index", idx.Symbol).Msg("index quote unavailable")
				p.metrics.Degrade("market")
				return nil
			}
			change := q.LastPrice - q.PreviousClose
			results[i] = &model.IndexQuote{
				Name:      idx.Name,
				Symbol:    idx.Symbol,
				Price:     q.LastPrice,
				PrevClose: q.PreviousClose,
				Change:    change,
				ChangePct: change / q.PreviousClose * 100,
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.IndexQuote, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
