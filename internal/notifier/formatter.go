package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalBench/internal/model"
	"SignalBench/internal/report"
	"SignalBench/internal/strategy"
)

// FormatRunSummary formats one backtest result into a Telegram message.
func FormatRunSummary(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s / %s\n",
		html.EscapeString(res.Symbol), report.ShortHeader(res.ShortWindowDays), report.LongHeader(res.LongWindowWeeks)))
	if n := len(res.Points); n > 0 {
		last := res.Points[n-1]
		b.WriteString(fmt.Sprintf("%s close %s (short %s, long %s)\n\n",
			last.Date.Format(model.DateLayout), report.FormatCurrency(last.Close),
			report.FormatCurrency(last.ShortMA), report.FormatCurrency(last.LongMA)))
	}

	b.WriteString(fmt.Sprintf("Signals: %d buy / %d sell\n", len(res.Buys), len(res.Sells)))
	b.WriteString(fmt.Sprintf("Trades: %d", res.Stats.TotalTrades))
	if res.Stats.AccuracyRate.Valid {
		b.WriteString(fmt.Sprintf(" | accuracy %s | avg %s (%s)",
			report.FormatPercent(res.Stats.AccuracyRate.Decimal),
			report.FormatCurrency(res.Stats.AverageGainValue.Decimal),
			report.FormatPercent(res.Stats.AverageGainPercent.Decimal)))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("💰 <b>Capital %s</b>\n", report.FormatCurrency(res.TotalCapital)))
	for _, o := range []model.StrategyOutcome{res.FullExposure, res.HybridTarget} {
		b.WriteString(fmt.Sprintf("  %s: %s (%s, ROI %s)\n",
			o.Name, report.FormatCurrency(o.FinalValue), report.FormatCurrency(o.TotalGain), report.FormatPercent(o.ROIPercent)))
	}

	if ev, ok := res.LastEvent(); ok {
		b.WriteString(fmt.Sprintf("\nLast signal: %s on %s at %s", ev.Kind, ev.Date.Format(model.DateLayout), report.FormatCurrency(ev.Price)))
	}
	return b.String()
}

// FormatSignalAlert formats a crossover that fired on the latest trading day.
func FormatSignalAlert(res *model.AnalysisResult, ev model.SignalEvent) string {
	icon := "🟢"
	if ev.Kind == model.SignalSell {
		icon = "🔴"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b> | %s\n\n", icon, html.EscapeString(res.Symbol), strings.ToUpper(string(ev.Kind)), ev.Date.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Close: %s\n", report.FormatCurrency(ev.Price)))
	b.WriteString(fmt.Sprintf("%s: %s\n", report.ShortHeader(res.ShortWindowDays), report.FormatCurrency(ev.ShortMA)))
	b.WriteString(fmt.Sprintf("%s: %s\n", report.LongHeader(res.LongWindowWeeks), report.FormatCurrency(ev.LongMA)))
	if ev.Kind == model.SignalBuy && res.GrowthTargetPercent.IsPositive() {
		target := strategy.HybridTarget{GrowthTargetPercent: res.GrowthTargetPercent}.TargetPrice(ev.Price)
		b.WriteString(fmt.Sprintf("Partial exit target (+%s): %s\n", report.FormatPercent(res.GrowthTargetPercent), report.FormatCurrency(target)))
	}
	return b.String()
}

// FormatError formats a failed run for a chat reply.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("⚠️ %s: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}
