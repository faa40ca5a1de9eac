package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"MarketMonitor/internal/model"
)

// ErrNoData is returned when indicators are requested for an empty series.
var ErrNoData = errors.New("no data")

// SMA returns the rolling simple moving average. Positions before the first full window are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = floats.Sum(values[i-period+1:i+1]) / float64(period)
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the
// first period valid values. Leading NaNs in values are skipped.
func EMA(values []float64, period int) []float64 {
	k := 2.0 / (float64(period) + 1.0)
	return smooth(values, period, func(prev, v float64) float64 {
		return v*k + prev*(1-k)
	})
}

// RMA is Wilder's moving average (alpha = 1/period), seeded like EMA.
func RMA(values []float64, period int) []float64 {
	return smooth(values, period, func(prev, v float64) float64 {
		return (prev*float64(period-1) + v) / float64(period)
	})
}

func smooth(values []float64, period int, next func(prev, v float64) float64) []float64 {
	out := nanSeries(len(values))
	start := firstValid(values)
	if period <= 0 || start < 0 || len(values)-start < period {
		return out
	}
	seed := start + period - 1
	out[seed] = floats.Sum(values[start:seed+1]) / float64(period)
	for i := seed + 1; i < len(values); i++ {
		out[i] = next(out[i-1], values[i])
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstValid(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractHighs(bars []model.OHLCV) []float64 {
	highs := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
	}
	return highs
}

func extractLows(bars []model.OHLCV) []float64 {
	lows := make([]float64, len(bars))
	for i, b := range bars {
		lows[i] = b.Low
	}
	return lows
}

func typicalPrices(bars []model.OHLCV) []float64 {
	tp := make([]float64, len(bars))
	for i, b := range bars {
		tp[i] = (b.High + b.Low + b.Close) / 3
	}
	return tp
}
