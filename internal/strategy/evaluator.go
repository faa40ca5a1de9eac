package strategy

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MarketMonitor/internal/calculator"
	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/model"
)

// SeriesSource fetches the price series of an instrument.
type SeriesSource interface {
	Series(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// SectorSource resolves the sector context of an instrument. It never fails.
type SectorSource interface {
	Resolve(ctx context.Context, symbol string) model.SectorSnapshot
}

// Evaluator composes price fetch, sector context, indicators and scoring.
type Evaluator struct {
	series  SeriesSource
	sectors SectorSource
	metrics *metrics.Metrics
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(series SeriesSource, sectors SectorSource, m *metrics.Metrics) *Evaluator {
	return &Evaluator{series: series, sectors: sectors, metrics: m}
}

// Evaluate scores symbol. The returned error is always an *EvaluationError.
func (e *Evaluator) Evaluate(ctx context.Context, symbol string) (*model.ScoreReport, error) {
	start := time.Now()
	report, err := e.evaluate(ctx, symbol)
	e.metrics.ObserveEvaluation(ResultLabel(err), time.Since(start))
	return report, err
}

func (e *Evaluator) evaluate(ctx context.Context, symbol string) (*model.ScoreReport, error) {
	var sector model.SectorSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sector = e.sectors.Resolve(gctx, symbol)
		return nil
	})

	series, err := e.series.Series(ctx, symbol)
	_ = g.Wait()
	if err != nil {
		return nil, &EvaluationError{Symbol: symbol, Kind: ErrDataUnavailable, Err: err}
	}

	frame, err := calculator.Compute(series.Bars)
	if err != nil {
		return nil, &EvaluationError{Symbol: symbol, Kind: ErrDataUnavailable, Err: err}
	}
	if !frame.Trend.Valid {
		return nil, &EvaluationError{Symbol: symbol, Kind: ErrIndicatorUnresolvable}
	}

	if missing := calculator.Missing(frame); len(missing) > 0 {
		log.Warn().Str("symbol", symbol).Strs("indicators", missing).Int("bars", len(series.Bars)).
			Msg("indicators undefined, using neutral defaults")
		e.metrics.Degrade("indicator")
	}

	latest, prev, _ := series.Latest()
	report, err := Score(latest, prev, frame, sector)
	if err != nil {
		return nil, &EvaluationError{Symbol: symbol, Kind: ErrIndicatorUnresolvable, Err: err}
	}
	report.Symbol = symbol
	return report, nil
}
