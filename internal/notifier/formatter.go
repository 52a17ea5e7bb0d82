package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"MomentumScout/internal/model"
)

// FormatReport renders the top n entries of a ranked list as a plain-text console report.
func FormatReport(list model.RankedList, n int) string {
	top := list.Top(n)
	var b strings.Builder
	if len(top) == 0 {
		b.WriteString("No assets could be scored.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Top %d investment-worthy cryptocurrencies:\n", len(top))
	for i, r := range top {
		ind := r.Indicators
		fmt.Fprintf(&b, "%d. %s (%s):\n", i+1, r.Name, r.Symbol)
		fmt.Fprintf(&b, "  Total Score: %.2f\n", r.TotalScore)
		fmt.Fprintf(&b, "  RSI: %.2f\n", ind.RSI)
		fmt.Fprintf(&b, "  MACD: %.2f\n", ind.MACD)
		fmt.Fprintf(&b, "  MACD Signal: %.2f\n", ind.MACDSignal)
		fmt.Fprintf(&b, "  Bollinger Lower Band: %.2f\n", ind.BollingerLBand)
		fmt.Fprintf(&b, "  Bollinger Upper Band: %.2f\n", ind.BollingerHBand)
		fmt.Fprintf(&b, "  Stochastic %%K: %.2f\n", ind.StochasticK)
		fmt.Fprintf(&b, "  Stochastic %%D: %.2f\n", ind.StochasticD)
		fmt.Fprintf(&b, "  Bollinger Bandwidth: %.2f\n", ind.BollingerBandwidth)
		fmt.Fprintf(&b, "  Future Trend: %s\n", r.Trend)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTelegramReport renders the top n entries as an HTML Telegram message.
func FormatTelegramReport(list model.RankedList, n int, scored, universe int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>MomentumScout</b> | %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Scored %d of %d assets\n\n", scored, universe)

	top := list.Top(n)
	if len(top) == 0 {
		b.WriteString("No assets could be scored.")
		return b.String()
	}
	for i, r := range top {
		ind := r.Indicators
		fmt.Fprintf(&b, "<b>%d. %s</b> (%s) score %.2f\n",
			i+1, html.EscapeString(r.Name), html.EscapeString(strings.ToUpper(r.Symbol)), r.TotalScore)
		fmt.Fprintf(&b, "  RSI %.2f | MACD %.2f/%.2f\n", ind.RSI, ind.MACD, ind.MACDSignal)
		fmt.Fprintf(&b, "  BB %.2f..%.2f (bw %.2f)\n", ind.BollingerLBand, ind.BollingerHBand, ind.BollingerBandwidth)
		fmt.Fprintf(&b, "  Stoch %.2f/%.2f | trend %s\n", ind.StochasticK, ind.StochasticD, r.Trend)
	}
	return b.String()
}

// FormatWatchlist lists the watched assets.
func FormatWatchlist(assets []model.Asset) string {
	if len(assets) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👀 <b>Watchlist</b> (%d)\n", len(assets))
	for _, a := range assets {
		fmt.Fprintf(&b, "• %s (%s)\n", html.EscapeString(a.Name), html.EscapeString(strings.ToUpper(a.Symbol)))
	}
	return b.String()
}
