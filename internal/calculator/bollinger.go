package calculator

import "gonum.org/v1/gonum/stat"

// BollingerBands holds the band series.
type BollingerBands struct {
	Upper []float64
	Lower []float64
}

// Bollinger computes SMA(period) ± multiplier * population standard deviation.
func Bollinger(closes []float64, period int, multiplier float64) BollingerBands {
	n := len(closes)
	bb := BollingerBands{Upper: nanSeries(n), Lower: nanSeries(n)}
	if period <= 0 || n < period {
		return bb
	}

	for i := period - 1; i < n; i++ {
		mean, std := stat.PopMeanStdDev(closes[i-period+1:i+1], nil)
		bb.Upper[i] = mean + multiplier*std
		bb.Lower[i] = mean - multiplier*std
	}
	return bb
}
