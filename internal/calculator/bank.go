package calculator

import (
	"MarketMonitor/internal/model"
)

// Lookback settings of the indicator bank.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignalPeriod = 9
	SuperTrendPeriod = 7
	SuperTrendMult   = 3.0
	BollingerPeriod  = 20
	BollingerMult    = 2.0
	MFIPeriod        = 14
	ADXPeriod        = 14
	IchimokuTenkan   = 9
	IchimokuKijun    = 26
	IchimokuSenkou   = 52
	CCIPeriod        = 20
	WillRPeriod      = 14
)

// Compute runs every indicator over bars and returns their values at the
// last bar. bars must be ascending by time. Indicators without enough
// history come back as invalid readings.
func Compute(bars []model.OHLCV) (*model.IndicatorFrame, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	closes := extractCloses(bars)
	frame := &model.IndicatorFrame{
		VWAP: model.Known(last(VWAP(bars))),
		RSI:  model.Known(last(RSI(closes, RSIPeriod))),
		MFI:  model.Known(last(MFI(bars, MFIPeriod))),
		ADX:  model.Known(last(ADX(bars, ADXPeriod))),
		CCI:  model.Known(last(CCI(bars, CCIPeriod))),
	}

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignalPeriod)
	frame.MACD = model.Known(last(macd.Line))
	frame.MACDSignal = model.Known(last(macd.Signal))

	st := SuperTrend(bars, SuperTrendPeriod, SuperTrendMult)
	if i := len(bars) - 1; st.Direction[i] != 0 {
		frame.Trend = model.TrendReading{Direction: st.Direction[i], Stop: st.Stop[i], Valid: true}
	}

	bb := Bollinger(closes, BollingerPeriod, BollingerMult)
	frame.BBUpper = model.Known(last(bb.Upper))
	frame.BBLower = model.Known(last(bb.Lower))

	cloud := Ichimoku(bars, IchimokuTenkan, IchimokuKijun, IchimokuSenkou)
	frame.SpanA = model.Known(last(cloud.SpanA))
	frame.SpanB = model.Known(last(cloud.SpanB))

	frame.WillR = model.Known(last(WilliamsR(bars, WillRPeriod)))

	return frame, nil
}

// Missing lists the indicators of frame that could not be computed.
func Missing(frame *model.IndicatorFrame) []string {
	var out []string
	check := func(name string, r model.Reading) {
		if !r.Valid {
			out = append(out, name)
		}
	}
	check("vwap", frame.VWAP)
	check("rsi", frame.RSI)
	check("macd", frame.MACD)
	check("macd_signal", frame.MACDSignal)
	if !frame.Trend.Valid {
		out = append(out, "supertrend")
	}
	check("bb_upper", frame.BBUpper)
	check("bb_lower", frame.BBLower)
	check("mfi", frame.MFI)
	check("adx", frame.ADX)
	check("ichimoku_a", frame.SpanA)
	check("ichimoku_b", frame.SpanB)
	check("cci", frame.CCI)
	check("willr", frame.WillR)
	return out
}
