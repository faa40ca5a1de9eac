package calculator

import "gonum.org/v1/gonum/floats"

// RollingHigh returns the highest value of each trailing window of period values.
func RollingHigh(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = floats.Max(values[i-period+1 : i+1])
	}
	return out
}

// RollingLow returns the lowest value of each trailing window of period values.
func RollingLow(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = floats.Min(values[i-period+1 : i+1])
	}
	return out
}

// Midpoint is the mean of the rolling high of highs and the rolling low of lows.
func Midpoint(highs, lows []float64, period int) []float64 {
	hh := RollingHigh(highs, period)
	ll := RollingLow(lows, period)
	out := make([]float64, len(hh))
	for i := range hh {
		out[i] = (hh[i] + ll[i]) / 2
	}
	return out
}
