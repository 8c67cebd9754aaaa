// Package ledger pairs crossover events into notional round-trip trades.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Ledger is the trade table built from one signal stream.
type Ledger struct {
	Rows   []model.LedgerRow // chronological
	Trades []model.TradeRecord
	Stats  model.TradeStats
}

// Build walks the chronological events, matching each Sell with the most
// recent pending Buy. A later Buy replaces an unmatched earlier one.
func Build(events []model.SignalEvent) *Ledger {
	l := &Ledger{Rows: make([]model.LedgerRow, 0, len(events))}

	var pending *model.SignalEvent
	for i := range events {
		ev := events[i]
		row := model.LedgerRow{
			Date:    ev.Date,
			Kind:    ev.Kind,
			Close:   ev.Price,
			ShortMA: ev.ShortMA,
			LongMA:  ev.LongMA,
		}

		switch ev.Kind {
		case model.SignalBuy:
			pending = &events[i]
		case model.SignalSell:
			if pending == nil {
				break
			}
			gain := ev.Price.Sub(pending.Price)
			pct := gain.Div(pending.Price).Mul(hundred)
			row.GainValue = decimal.NewNullDecimal(gain)
			row.GainPercent = decimal.NewNullDecimal(pct)
			l.Trades = append(l.Trades, model.TradeRecord{
				BuyDate:     pending.Date,
				BuyPrice:    pending.Price,
				SellDate:    ev.Date,
				SellPrice:   ev.Price,
				GainValue:   gain,
				GainPercent: pct,
			})
			pending = nil
		}
		l.Rows = append(l.Rows, row)
	}

	l.Stats = Summarize(l.Trades)
	return l
}

// Summarize computes the aggregate statistics. AverageGainPercent is the mean
// of the per-trade percentages, not the average gain over the average price.
func Summarize(trades []model.TradeRecord) model.TradeStats {
	stats := model.TradeStats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	n := decimal.NewFromInt(int64(len(trades)))
	sumGain, sumPct := decimal.Zero, decimal.Zero
	profitable := 0
	for _, t := range trades {
		sumGain = sumGain.Add(t.GainValue)
		sumPct = sumPct.Add(t.GainPercent)
		if t.GainValue.IsPositive() {
			profitable++
		}
	}

	stats.AverageGainValue = decimal.NewNullDecimal(sumGain.Div(n))
	stats.AverageGainPercent = decimal.NewNullDecimal(sumPct.Div(n))
	stats.AccuracyRate = decimal.NewNullDecimal(decimal.NewFromInt(int64(profitable)).Div(n).Mul(hundred))
	return stats
}

// DisplayRows returns the rows sorted most recent first.
func (l *Ledger) DisplayRows() []model.LedgerRow {
	return SortForDisplay(l.Rows)
}

// SortForDisplay returns a date-descending copy of rows.
func SortForDisplay(rows []model.LedgerRow) []model.LedgerRow {
	out := make([]model.LedgerRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
