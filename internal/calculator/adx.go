package calculator

import (
	"math"

	"MarketMonitor/internal/model"
)

// ADX computes Wilder's Average Directional Index. Directional movement and
// true range are smoothed with RMA, DX is derived from the two DIs and
// smoothed again, so the first value lands at index 2*period-1.
func ADX(bars []model.OHLCV, period int) []float64 {
	n := len(bars)
	if period <= 0 || n < 2*period {
		return nanSeries(n)
	}

	plusDM := nanSeries(n)
	minusDM := nanSeries(n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		plusDM[i], minusDM[i] = 0, 0
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	atr := RMA(TrueRange(bars), period)
	smPlus := RMA(plusDM, period)
	smMinus := RMA(minusDM, period)

	dx := nanSeries(n)
	for i := range dx {
		switch {
		case math.IsNaN(atr[i]):
			continue
		case atr[i] == 0:
			dx[i] = 0
			continue
		}
		pdi := 100 * smPlus[i] / atr[i]
		mdi := 100 * smMinus[i] / atr[i]
		if pdi+mdi == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(pdi-mdi) / (pdi + mdi)
	}
	return RMA(dx, period)
}
