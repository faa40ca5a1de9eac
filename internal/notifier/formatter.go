package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"MarketMonitor/internal/model"
	"MarketMonitor/internal/strategy"
)

// Price formats a price with thousands separators and two decimals.
func Price(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	_, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	s := humanize.Comma(d.Abs().IntPart()) + "." + frac
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// Signed formats v with an explicit sign and two decimals.
func Signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func signalIcon(s model.SignalLabel) string {
	switch {
	case s.Bullish():
		return "🟢"
	case s.Bearish():
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatReport formats a score report into a Telegram message.
func FormatReport(r *model.ScoreReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(r.Symbol), r.AsOf.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: ₹%s (%s, %s%%)\n", Price(r.LastPrice), Signed(r.Change), Signed(r.ChangePct)))
	b.WriteString(fmt.Sprintf("VWAP: ₹%s\n", Price(r.VWAP)))
	b.WriteString(fmt.Sprintf("Stop loss: ₹%s\n\n", Price(r.StopLoss)))

	b.WriteString(fmt.Sprintf("%s <b>%s</b> | Score %d/100\n", signalIcon(r.Signal), r.Signal, r.Score))
	for _, reason := range r.Reasons {
		b.WriteString("  • " + html.EscapeString(reason) + "\n")
	}
	return b.String()
}

// FormatEvaluationError describes a failed evaluation.
func FormatEvaluationError(symbol string, err error) string {
	switch {
	case errors.Is(err, strategy.ErrDataUnavailable):
		return fmt.Sprintf("❌ %s: data unavailable, retrying on the next poll", html.EscapeString(symbol))
	case errors.Is(err, strategy.ErrIndicatorUnresolvable):
		return fmt.Sprintf("❌ %s: not enough history for SuperTrend", html.EscapeString(symbol))
	default:
		return fmt.Sprintf("❌ %s: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
	}
}

// FormatIndices formats reference index quotes.
func FormatIndices(quotes []model.IndexQuote) string {
	if len(quotes) == 0 {
		return "📉 Market indices unavailable"
	}
	var b strings.Builder
	b.WriteString("🏛 <b>Market</b>\n\n")
	for _, q := range quotes {
		icon := "🟢"
		if q.Change < 0 {
			icon = "🔴"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s (%s, %s%%)\n", icon, html.EscapeString(q.Name), Price(q.Price), Signed(q.Change), Signed(q.ChangePct)))
	}
	return b.String()
}

// FormatNews formats headlines for a query.
func FormatNews(query string, items []model.NewsItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("📰 No news for %q", html.EscapeString(query))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>%s</b>\n\n", html.EscapeString(query)))
	for _, it := range items {
		b.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n  %s · %s\n",
			html.EscapeString(it.Link), html.EscapeString(it.Title), html.EscapeString(it.Source), it.Age))
	}
	return b.String()
}

// FormatAlert announces a move into a strong signal.
func FormatAlert(prev model.SignalLabel, r *model.ScoreReport) string {
	from := string(prev)
	if from == "" {
		from = "—"
	}
	return fmt.Sprintf("🚨 <b>%s → %s</b> | %s\n\n%s", from, r.Signal, html.EscapeString(r.Symbol), FormatReport(r))
}
