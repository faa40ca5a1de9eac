package model

import "math"

// Reading is an indicator value that may be missing when the series is
// too short for the indicator's lookback.
type Reading struct {
	Value float64
	Valid bool
}

// Known wraps a computed value. NaN and infinities are treated as missing.
func Known(v float64) Reading {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Reading{}
	}
	return Reading{Value: v, Valid: true}
}

// Or returns the value, or def when the reading is missing.
func (r Reading) Or(def float64) float64 {
	if !r.Valid {
		return def
	}
	return r.Value
}

// TrendReading is the SuperTrend state at the latest bar.
type TrendReading struct {
	Direction int     // +1 up, -1 down
	Stop      float64 // trailing stop level
	Valid     bool
}

// IndicatorFrame holds the latest value of every indicator computed from a PriceSeries.
type IndicatorFrame struct {
	VWAP       Reading
	RSI        Reading
	MACD       Reading
	MACDSignal Reading
	Trend      TrendReading
	BBUpper    Reading
	BBLower    Reading
	MFI        Reading
	ADX        Reading
	SpanA      Reading
	SpanB      Reading
	CCI        Reading
	WillR      Reading
}
