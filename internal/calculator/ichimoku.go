package calculator

import "MarketMonitor/internal/model"

// IchimokuCloud holds the leading spans aligned to the bar they are plotted
// at: index i carries the value computed at bar i-displacement.
type IchimokuCloud struct {
	SpanA []float64
	SpanB []float64
}

// Ichimoku computes the cloud spans. Span A is the mean of the conversion
// (tenkan) and base (kijun) lines, span B is the senkou-period midpoint;
// both are displaced forward by the kijun period.
func Ichimoku(bars []model.OHLCV, tenkan, kijun, senkou int) IchimokuCloud {
	n := len(bars)
	cloud := IchimokuCloud{SpanA: nanSeries(n), SpanB: nanSeries(n)}

	highs, lows := extractHighs(bars), extractLows(bars)
	conversion := Midpoint(highs, lows, tenkan)
	base := Midpoint(highs, lows, kijun)
	leading := Midpoint(highs, lows, senkou)

	for i := kijun; i < n; i++ {
		src := i - kijun
		cloud.SpanA[i] = (conversion[src] + base[src]) / 2
		cloud.SpanB[i] = leading[src]
	}
	return cloud
}
