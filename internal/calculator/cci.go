package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"MarketMonitor/internal/model"
)

// CCI computes the Commodity Channel Index of the typical price with the
// usual 0.015 constant. Windows with zero mean deviation are NaN.
func CCI(bars []model.OHLCV, period int) []float64 {
	n := len(bars)
	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}

	tp := typicalPrices(bars)
	for i := period - 1; i < n; i++ {
		window := tp[i-period+1 : i+1]
		mean := stat.Mean(window, nil)
		meanDev := 0.0
		for _, v := range window {
			meanDev += math.Abs(v - mean)
		}
		meanDev /= float64(period)
		if meanDev == 0 {
			continue
		}
		out[i] = (tp[i] - mean) / (0.015 * meanDev)
	}
	return out
}
