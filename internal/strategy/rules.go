package strategy

import (
	"fmt"
	"math"

	"MarketMonitor/internal/model"
)

// ruleResult is the contribution of one rule. Reason is empty when Delta is 0.
type ruleResult struct {
	Delta  int
	Reason string
}

func fired(delta int, reason string) ruleResult { return ruleResult{Delta: delta, Reason: reason} }

var silent = ruleResult{}

// Neutral defaults for indicators that could not be computed.
const (
	defaultRSI   = 50.0
	defaultMFI   = 50.0
	defaultWillR = -50.0
)

// ruleSector: sector index up more than 0.2% is a tailwind, down more than 0.2% a headwind.
func ruleSector(sec model.SectorSnapshot) ruleResult {
	switch {
	case sec.ChangePct > 0.2:
		return fired(5, fmt.Sprintf("🌍 Sector (%s): Bullish (%+.2f%%)", sec.Name, sec.ChangePct))
	case sec.ChangePct < -0.2:
		return fired(-5, fmt.Sprintf("🌍 Sector (%s): Bearish (%+.2f%%)", sec.Name, sec.ChangePct))
	}
	return silent
}

// ruleSuperTrend: ±10 by trend direction. The caller guarantees the trend resolved.
func ruleSuperTrend(trend model.TrendReading) ruleResult {
	if trend.Direction == 1 {
		return fired(10, "📈 SuperTrend: Bullish")
	}
	return fired(-10, "📉 SuperTrend: Bearish")
}

// ruleVWAP: ±10 by close against VWAP. A missing VWAP equals the close.
func ruleVWAP(price float64, vwap model.Reading) ruleResult {
	if price > vwap.Or(price) {
		return fired(10, "🏦 VWAP: Price > Inst. Avg")
	}
	return fired(-10, "🏦 VWAP: Price < Inst. Avg")
}

// ruleRSI: contrarian ±5 outside 30/70.
func ruleRSI(rsi model.Reading) ruleResult {
	v := rsi.Or(defaultRSI)
	switch {
	case v < 30:
		return fired(5, fmt.Sprintf("🟢 RSI: Oversold (%.0f)", v))
	case v > 70:
		return fired(-5, fmt.Sprintf("🔴 RSI: Overbought (%.0f)", v))
	}
	return silent
}

// ruleMACD: ±5 by line against signal. Missing values read as 0, so an
// unresolved MACD counts as bearish.
func ruleMACD(line, signal model.Reading) ruleResult {
	if line.Or(0) > signal.Or(0) {
		return fired(5, "🟢 MACD: Bullish Cross")
	}
	return fired(-5, "🔴 MACD: Bearish Cross")
}

// ruleMFI: contrarian ±5 outside 20/80.
func ruleMFI(mfi model.Reading) ruleResult {
	switch v := mfi.Or(defaultMFI); {
	case v < 20:
		return fired(5, "💰 MFI: Accumulation")
	case v > 80:
		return fired(-5, "💰 MFI: Distribution")
	}
	return silent
}

// ruleADX: +5 when the trend is strong.
func ruleADX(adx model.Reading) ruleResult {
	if adx.Or(0) > 25 {
		return fired(5, "💪 ADX: Strong Trend")
	}
	return silent
}

// ruleIchimoku: ±10 when the close is outside the cloud.
func ruleIchimoku(price float64, spanA, spanB model.Reading) ruleResult {
	a, b := spanA.Or(0), spanB.Or(0)
	switch {
	case price > math.Max(a, b):
		return fired(10, "☁️ Ichimoku: Above Cloud")
	case price < math.Min(a, b):
		return fired(-10, "☁️ Ichimoku: Below Cloud")
	}
	return silent
}

// ruleBollinger: mean reversion ∓5 when the close pierces a band.
func ruleBollinger(price float64, upper, lower model.Reading) ruleResult {
	switch {
	case price > upper.Or(0):
		return fired(-5, "💥 BBands: Upper Pierce")
	case price < lower.Or(0):
		return fired(5, "💥 BBands: Lower Pierce")
	}
	return silent
}

// ruleCCI: momentum ±5 beyond ±100.
func ruleCCI(cci model.Reading) ruleResult {
	switch v := cci.Or(0); {
	case v > 100:
		return fired(5, "🔄 CCI: Upside Momentum")
	case v < -100:
		return fired(-5, "🔄 CCI: Downside Momentum")
	}
	return silent
}

// ruleWillR: contrarian ±5 outside -80/-20.
func ruleWillR(willr model.Reading) ruleResult {
	switch v := willr.Or(defaultWillR); {
	case v < -80:
		return fired(5, "📉 Will%R: Oversold")
	case v > -20:
		return fired(-5, "📈 Will%R: Overbought")
	}
	return silent
}
