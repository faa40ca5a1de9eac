package calculator

import (
	"gonum.org/v1/gonum/floats"

	"MarketMonitor/internal/model"
)

// MFI computes the Money Flow Index. Raw money flow (typical price × volume)
// counts as positive when the typical price rose and negative when it fell;
// unchanged bars count as neither. Windows without any flow are NaN.
func MFI(bars []model.OHLCV, period int) []float64 {
	n := len(bars)
	out := nanSeries(n)
	if period <= 0 || n < period+1 {
		return out
	}

	tp := typicalPrices(bars)
	pos := make([]float64, n)
	neg := make([]float64, n)
	for i := 1; i < n; i++ {
		flow := tp[i] * bars[i].Volume
		switch {
		case tp[i] > tp[i-1]:
			pos[i] = flow
		case tp[i] < tp[i-1]:
			neg[i] = flow
		}
	}

	for i := period; i < n; i++ {
		p := floats.Sum(pos[i-period+1 : i+1])
		q := floats.Sum(neg[i-period+1 : i+1])
		if p+q == 0 {
			continue
		}
		out[i] = 100 * p / (p + q)
	}
	return out
}
