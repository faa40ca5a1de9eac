package calculator

// MACDResult holds the MACD line and its signal line.
type MACDResult struct {
	Line   []float64
	Signal []float64
}

// MACD computes EMA(fast) - EMA(slow) and its EMA(signal).
// With 12/26/9 the line starts at index 25 and the signal at index 33.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i] // NaN until both are seeded
	}
	return MACDResult{Line: line, Signal: EMA(line, signal)}
}
