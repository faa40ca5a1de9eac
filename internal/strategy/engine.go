package strategy

import (
	"fmt"

	"MarketMonitor/internal/model"
)

// Baseline is the score before any rule fires.
const Baseline = 50

// Labels maps score thresholds to signals, checked in order.
var Labels = []struct {
	Matches func(score int) bool
	Signal  model.SignalLabel
}{
	{func(s int) bool { return s >= 75 }, model.SignalStrongBuy},
	{func(s int) bool { return s >= 60 }, model.SignalBuy},
	{func(s int) bool { return s <= 25 }, model.SignalStrongSell},
	{func(s int) bool { return s <= 40 }, model.SignalSell},
}

// labelFor maps a clamped score to its signal label.
func labelFor(score int) model.SignalLabel {
	for _, l := range Labels {
		if l.Matches(score) {
			return l.Signal
		}
	}
	return model.SignalNeutral
}

func clamp(score int) int {
	return max(0, min(100, score))
}

// Score combines the indicator frame and the sector snapshot into a report.
// It is a pure function of its inputs. It fails only when the SuperTrend
// did not resolve.
func Score(latest, prev model.OHLCV, frame *model.IndicatorFrame, sec model.SectorSnapshot) (*model.ScoreReport, error) {
	if frame == nil || !frame.Trend.Valid {
		return nil, fmt.Errorf("supertrend: %w", ErrIndicatorUnresolvable)
	}

	price := latest.Close
	rules := []ruleResult{
		ruleSector(sec),
		ruleSuperTrend(frame.Trend),
		ruleVWAP(price, frame.VWAP),
		ruleRSI(frame.RSI),
		ruleMACD(frame.MACD, frame.MACDSignal),
		ruleMFI(frame.MFI),
		ruleADX(frame.ADX),
		ruleIchimoku(price, frame.SpanA, frame.SpanB),
		ruleBollinger(price, frame.BBUpper, frame.BBLower),
		ruleCCI(frame.CCI),
		ruleWillR(frame.WillR),
	}

	score := Baseline
	reasons := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Delta == 0 {
			continue
		}
		score += r.Delta
		reasons = append(reasons, r.Reason)
	}
	score = clamp(score)

	report := &model.ScoreReport{
		Score:     score,
		Signal:    labelFor(score),
		Reasons:   reasons,
		StopLoss:  frame.Trend.Stop,
		LastPrice: price,
		Change:    price - prev.Close,
		VWAP:      frame.VWAP.Or(price),
		Sector:    sec,
		AsOf:      latest.Time,
	}
	if prev.Close != 0 {
		report.ChangePct = report.Change / prev.Close * 100
	}
	return report, nil
}
