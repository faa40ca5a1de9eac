package calculator

import (
	"time"

	"MarketMonitor/internal/model"
)

// VWAP computes the volume weighted average price of the typical price,
// anchored to the trading session: the running sums restart whenever the
// calendar date of the bar (in the bar's location) changes.
func VWAP(bars []model.OHLCV) []float64 {
	out := nanSeries(len(bars))

	cumulativeTPV := 0.0
	cumulativeVol := 0.0

	for i, b := range bars {
		if i > 0 && !sameSession(bars[i-1].Time, b.Time) {
			cumulativeTPV, cumulativeVol = 0, 0
		}
		typicalPrice := (b.High + b.Low + b.Close) / 3.0
		cumulativeTPV += typicalPrice * b.Volume
		cumulativeVol += b.Volume

		if cumulativeVol > 0 {
			out[i] = cumulativeTPV / cumulativeVol
		}
	}
	return out
}

func sameSession(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
