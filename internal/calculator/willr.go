package calculator

import (
	"math"

	"MarketMonitor/internal/model"
)

// WilliamsR computes Williams %R in the range [-100, 0]. Windows where the
// highest high equals the lowest low are NaN.
func WilliamsR(bars []model.OHLCV, period int) []float64 {
	n := len(bars)
	out := nanSeries(n)
	hh := RollingHigh(extractHighs(bars), period)
	ll := RollingLow(extractLows(bars), period)
	for i := 0; i < n; i++ {
		span := hh[i] - ll[i]
		if span == 0 || math.IsNaN(span) {
			continue
		}
		out[i] = -100 * (hh[i] - bars[i].Close) / span
	}
	return out
}
