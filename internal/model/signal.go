package model

import (
	"strings"
	"time"
)

// SignalLabel is the discrete trading signal derived from the score.
type SignalLabel string

const (
	SignalStrongBuy  SignalLabel = "STRONG BUY"
	SignalBuy        SignalLabel = "BUY"
	SignalNeutral    SignalLabel = "NEUTRAL"
	SignalSell       SignalLabel = "SELL"
	SignalStrongSell SignalLabel = "STRONG SELL"
)

// Bullish reports whether the label is one of the buy labels.
func (l SignalLabel) Bullish() bool { return strings.Contains(string(l), "BUY") }

// Bearish reports whether the label is one of the sell labels.
func (l SignalLabel) Bearish() bool { return strings.Contains(string(l), "SELL") }

// SectorSnapshot is the intraday momentum of an instrument's reference index.
type SectorSnapshot struct {
	Identifier string  `json:"identifier"`
	Name       string  `json:"name"`
	ChangePct  float64 `json:"change_pct"`
}

// DefaultSector is used whenever sector context cannot be fetched.
var DefaultSector = SectorSnapshot{Identifier: "MARKET", Name: "MARKET"}

// ScoreReport is the verdict of one evaluation. It is built once and not modified afterwards.
type ScoreReport struct {
	Symbol    string         `json:"symbol"`
	Score     int            `json:"score"`
	Signal    SignalLabel    `json:"signal"`
	Reasons   []string       `json:"reasons"`
	StopLoss  float64        `json:"stop_loss"`
	LastPrice float64        `json:"last_price"`
	Change    float64        `json:"change"`
	ChangePct float64        `json:"change_pct"`
	VWAP      float64        `json:"vwap"`
	Sector    SectorSnapshot `json:"sector"`
	AsOf      time.Time      `json:"as_of"`
}
