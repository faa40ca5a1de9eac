package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the bars of one instrument over a lookback window,
// ascending by time with no duplicate timestamps.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Latest returns the most recent bar and the one before it.
// ok is false when the series has fewer than two bars.
func (s *PriceSeries) Latest() (latest, prev OHLCV, ok bool) {
	n := len(s.Bars)
	if n < 2 {
		return OHLCV{}, OHLCV{}, false
	}
	return s.Bars[n-1], s.Bars[n-2], true
}

// DailyBar is the open and last price of an index for the current session.
type DailyBar struct {
	Open  float64
	Close float64
}

// Quote is the last traded price of an instrument and its previous close.
type Quote struct {
	LastPrice     float64
	PreviousClose float64
}

// IndexRef names a reference index.
type IndexRef struct {
	Name   string `yaml:"name" json:"name"`
	Symbol string `yaml:"symbol" json:"symbol"`
}

// IndexQuote is a reference index quote with its change against the previous close.
type IndexQuote struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// ChartPoint is a candle shaped for the chart widget. Time is shifted
// by the display offset, not a real unix timestamp.
type ChartPoint struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}
