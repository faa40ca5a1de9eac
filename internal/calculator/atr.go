package calculator

import (
	"math"

	"MarketMonitor/internal/model"
)

// TrueRange returns the true range of every bar. The first bar has no
// previous close, so its entry is NaN.
func TrueRange(bars []model.OHLCV) []float64 {
	trs := nanSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}
	return trs
}

// ATR computes the Wilder-smoothed Average True Range. The first value is at index period.
func ATR(bars []model.OHLCV, period int) []float64 {
	return RMA(TrueRange(bars), period)
}
