package calculator

import "MarketMonitor/internal/model"

// SuperTrendResult holds the trend direction (+1/-1, 0 where undefined)
// and the trailing stop of every bar.
type SuperTrendResult struct {
	Direction []int
	Stop      []float64
}

// SuperTrend computes the ATR band trend follower. The basic bands are
// hl2 ± multiplier*ATR; the direction flips when the close crosses the
// previous final band, and on bars without a flip the active band only
// ratchets in the trend's favour. The trailing stop is the lower band in an uptrend and the
// upper band in a downtrend.
func SuperTrend(bars []model.OHLCV, period int, multiplier float64) SuperTrendResult {
	n := len(bars)
	res := SuperTrendResult{Direction: make([]int, n), Stop: nanSeries(n)}

	atr := ATR(bars, period)
	start := firstValid(atr)
	if start < 0 {
		return res
	}

	upper := nanSeries(n)
	lower := nanSeries(n)
	for i := start; i < n; i++ {
		hl2 := (bars[i].High + bars[i].Low) / 2
		upper[i] = hl2 + multiplier*atr[i]
		lower[i] = hl2 - multiplier*atr[i]
	}

	dir := 1
	for i := start; i < n; i++ {
		if i > start {
			switch c := bars[i].Close; {
			case c > upper[i-1]:
				dir = 1
			case c < lower[i-1]:
				dir = -1
			default:
				if dir == 1 && lower[i] < lower[i-1] {
					lower[i] = lower[i-1]
				}
				if dir == -1 && upper[i] > upper[i-1] {
					upper[i] = upper[i-1]
				}
			}
		}
		res.Direction[i] = dir
		if dir == 1 {
			res.Stop[i] = lower[i]
		} else {
			res.Stop[i] = upper[i]
		}
	}
	return res
}
