package model

import "time"

// NewsItem is one headline attached to a report for display.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Age         string    `json:"age"`
}

// SymbolView is the per-symbol part of a dashboard. Exactly one of Report and Error is set.
type SymbolView struct {
	Symbol string       `json:"symbol"`
	Report *ScoreReport `json:"report,omitempty"`
	Error  string       `json:"error,omitempty"`
	News   []NewsItem   `json:"news,omitempty"`
}

// Dashboard is everything produced by one poll. Each poll builds a new one.
type Dashboard struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Indices     []IndexQuote `json:"indices"`
	Symbols     []SymbolView `json:"symbols"`
	MarketNews  []NewsItem   `json:"market_news,omitempty"`
}
