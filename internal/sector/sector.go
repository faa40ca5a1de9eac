package sector

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/metrics"
	"MarketMonitor/internal/model"
)

// BroadMarket is the fallback reference index.
const BroadMarket = "^NSEI"

// defaultTable maps normalised symbols to their sector index.
var defaultTable = map[string]string{
	"RELIANCE":   "^CNXENERGY",
	"ONGC":       "^CNXENERGY",
	"POWERGRID":  "^CNXENERGY",
	"TCS":        "^CNXIT",
	"INFY":       "^CNXIT",
	"WIPRO":      "^CNXIT",
	"HCLTECH":    "^CNXIT",
	"ZOMATO":     "^CNXIT",
	"HDFCBANK":   "^NSEBANK",
	"SBIN":       "^NSEBANK",
	"ICICIBANK":  "^NSEBANK",
	"TATASTEEL":  "^CNXMETAL",
	"JINDALSTEL": "^CNXMETAL",
	"TATAMOTORS": "^CNXAUTO",
	"M&M":        "^CNXAUTO",
	"TMCV":       "^CNXAUTO",
	"ITC":        "^CNXFMCG",
	"HUL":        "^CNXFMCG",
	"SUNPHARMA":  "^CNXPHARMA",
	"BSE":        "^CNXFIN",
	"CDSL":       "^CNXFIN",
}

// displayNames are the short names shown in reasons.
var displayNames = map[string]string{
	"^CNXENERGY": "ENERGY",
	"^CNXIT":     "IT",
	"^NSEBANK":   "BANK",
	"^CNXMETAL":  "METAL",
	"^CNXAUTO":   "AUTO",
	"^CNXFMCG":   "FMCG",
	"^CNXPHARMA": "PHARMA",
	"^CNXFIN":    "FIN",
	"^NSEI":      "NIFTY 50",
}

// knownSuffixes are stripped before table lookups.
var knownSuffixes = []string{".NS", ".BO"}

// DailyBarSource fetches the latest session bar of an index.
type DailyBarSource interface {
	DailyBar(ctx context.Context, index string) (model.DailyBar, error)
}

// Resolver maps instruments to their sector index and measures its
// intraday momentum.
type Resolver struct {
	source   DailyBarSource
	table    map[string]string
	fallback string
	metrics  *metrics.Metrics
}

// NewResolver creates a Resolver. overrides are merged over the built-in
// table; an empty fallback selects BroadMarket.
func NewResolver(source DailyBarSource, fallback string, overrides map[string]string, m *metrics.Metrics) *Resolver {
	if fallback == "" {
		fallback = BroadMarket
	}
	table := make(map[string]string, len(defaultTable)+len(overrides))
	for k, v := range defaultTable {
		table[k] = v
	}
	for k, v := range overrides {
		table[Normalize(k)] = v
	}
	return &Resolver{source: source, table: table, fallback: fallback, metrics: m}
}

// Normalize upper-cases symbol and strips a known exchange suffix.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, suffix := range knownSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// IndexFor returns the sector index of symbol, or the fallback index.
func (r *Resolver) IndexFor(symbol string) string {
	if idx, ok := r.table[Normalize(symbol)]; ok {
		return idx
	}
	return r.fallback
}

// DisplayName returns the short name of an index.
func DisplayName(index string) string {
	if name, ok := displayNames[index]; ok {
		return name
	}
	return strings.TrimPrefix(index, "^")
}

// Resolve returns the sector snapshot of symbol. It never fails: any fetch
// problem yields model.DefaultSector.
func (r *Resolver) Resolve(ctx context.Context, symbol string) model.SectorSnapshot {
	index := r.IndexFor(symbol)

	bar, err := r.source.DailyBar(ctx, index)
	if err != nil || bar.Open == 0 {
		log.Warn().Err(err).Str("symbol", symbol).Str("index", index).Msg("sector context unavailable, using default")
		r.metrics.Degrade("sector")
		return model.DefaultSector
	}

	return model.SectorSnapshot{
		Identifier: index,
		Name:       DisplayName(index),
		ChangePct:  (bar.Close - bar.Open) / bar.Open * 100,
	}
}
