package strategy

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMonitor/internal/model"
	"MarketMonitor/internal/sector"
)

type stubSeries struct {
	bars []model.OHLCV
	err  error
}

func (s stubSeries) Series(_ context.Context, symbol string) (*model.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.PriceSeries{Symbol: symbol, Bars: s.bars}, nil
}

type fixedSector model.SectorSnapshot

func (f fixedSector) Resolve(context.Context, string) model.SectorSnapshot {
	return model.SectorSnapshot(f)
}

type failingDaily struct{}

func (failingDaily) DailyBar(context.Context, string) (model.DailyBar, error) {
	return model.DailyBar{}, errors.New("connection reset")
}

func series(n int, drift float64) []model.OHLCV {
	start := time.Date(2025, 3, 3, 9, 15, 0, 0, time.UTC)
	out := make([]model.OHLCV, n)
	for i := range out {
		x := float64(i)
		mid := 1000 + drift*x + 6*math.Sin(x/4)
		out[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   mid - 0.5,
			High:   mid + 2,
			Low:    mid - 2,
			Close:  mid + 0.5*math.Cos(x),
			Volume: 500 + 100*math.Abs(math.Sin(x/3)),
		}
	}
	return out
}

func TestEvaluate_ScoreInRange(t *testing.T) {
	for _, drift := range []float64{-3, -0.5, 0, 0.5, 3} {
		for _, n := range []int{26, 60, 375} {
			ev := NewEvaluator(stubSeries{bars: series(n, drift)}, fixedSector(model.DefaultSector), nil)
			report, err := ev.Evaluate(context.Background(), "TCS")
			require.NoError(t, err, "drift %v n %d", drift, n)
			assert.GreaterOrEqual(t, report.Score, 0)
			assert.LessOrEqual(t, report.Score, 100)
			assert.Equal(t, labelFor(report.Score), report.Signal)
			assert.Equal(t, "TCS", report.Symbol)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	ev := NewEvaluator(stubSeries{bars: series(200, 0.7)}, fixedSector{Identifier: "^CNXIT", Name: "IT", ChangePct: 0.4}, nil)
	first, err := ev.Evaluate(context.Background(), "INFY")
	require.NoError(t, err)
	second, err := ev.Evaluate(context.Background(), "INFY")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluate_RisingSeriesIsBullish(t *testing.T) {
	ev := NewEvaluator(stubSeries{bars: series(200, 3)}, fixedSector(model.DefaultSector), nil)
	report, err := ev.Evaluate(context.Background(), "RELIANCE")
	require.NoError(t, err)

	assert.Contains(t, report.Reasons, "📈 SuperTrend: Bullish")
	assert.Contains(t, report.Reasons, "🏦 VWAP: Price > Inst. Avg")
	assert.Contains(t, report.Reasons, "💪 ADX: Strong Trend")
	assert.Contains(t, report.Reasons, "☁️ Ichimoku: Above Cloud")
	assert.Less(t, report.StopLoss, report.LastPrice)
	assert.True(t, report.Signal.Bullish())
}

func TestEvaluate_DataUnavailable(t *testing.T) {
	ev := NewEvaluator(stubSeries{err: errors.New("timeout")}, fixedSector(model.DefaultSector), nil)
	report, err := ev.Evaluate(context.Background(), "TCS")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "TCS", evalErr.Symbol)

	ev = NewEvaluator(stubSeries{}, fixedSector(model.DefaultSector), nil)
	_, err = ev.Evaluate(context.Background(), "TCS")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestEvaluate_ShortSeriesUnresolvable(t *testing.T) {
	for _, n := range []int{1, 2, 6, 7} {
		ev := NewEvaluator(stubSeries{bars: series(n, 1)}, fixedSector(model.DefaultSector), nil)
		report, err := ev.Evaluate(context.Background(), "TCS")
		assert.Nil(t, report, "n=%d", n)
		assert.ErrorIs(t, err, ErrIndicatorUnresolvable, "n=%d", n)
		assert.NotErrorIs(t, err, ErrDataUnavailable)
	}
}

func TestEvaluate_SectorFailureEqualsZeroSector(t *testing.T) {
	bars := series(120, 0.8)
	failing := NewEvaluator(stubSeries{bars: bars}, sector.NewResolver(failingDaily{}, "", nil, nil), nil)
	zero := NewEvaluator(stubSeries{bars: bars}, fixedSector{}, nil)

	got, err := failing.Evaluate(context.Background(), "TCS")
	require.NoError(t, err)
	want, err := zero.Evaluate(context.Background(), "TCS")
	require.NoError(t, err)

	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Reasons, got.Reasons)
	assert.Equal(t, model.DefaultSector, got.Sector)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", ResultLabel(nil))
	assert.Equal(t, "data_unavailable", ResultLabel(&EvaluationError{Kind: ErrDataUnavailable}))
	assert.Equal(t, "indicator_unresolvable", ResultLabel(&EvaluationError{Kind: ErrIndicatorUnresolvable}))
	assert.Equal(t, "error", ResultLabel(errors.New("boom")))
}
