// Package crossover derives buy/sell events from the relationship between a
// short and a long simple moving average.
package crossover

import (
	"fmt"

	"github.com/shopspring/decimal"

	"SignalBench/internal/calculator"
	"SignalBench/internal/model"
)

// WeeksToDays converts the long window from weeks to trading days.
const WeeksToDays = 5

// Detection is the aligned working series plus the crossover events found on it.
type Detection struct {
	ShortWindow     int
	LongWindowWeeks int
	LongWindowDays  int

	Points []model.AlignedPoint
	Diffs  []decimal.Decimal // ShortMA - LongMA per aligned point
	Events []model.SignalEvent
}

// Buys returns the Buy events in chronological order.
func (d *Detection) Buys() []model.SignalEvent { return d.byKind(model.SignalBuy) }

// Sells returns the Sell events in chronological order.
func (d *Detection) Sells() []model.SignalEvent { return d.byKind(model.SignalSell) }

func (d *Detection) byKind(kind model.SignalKind) []model.SignalEvent {
	out := make([]model.SignalEvent, 0, len(d.Events))
	for _, ev := range d.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Detect computes both moving averages, trims the leading points where either
// is undefined and classifies every aligned point after the first.
func Detect(series model.PriceSeries, shortWindow, longWindowWeeks int) (*Detection, error) {
	if shortWindow <= 0 || longWindowWeeks <= 0 {
		return nil, model.InvalidParameter("moving average periods must be positive")
	}
	longWindow := longWindowWeeks * WeeksToDays

	required := max(shortWindow, longWindow)
	if series.Len() < required {
		return nil, model.InsufficientHistory("only %d days of data found, need at least %d days", series.Len(), required)
	}

	shortMA, err := calculator.SeriesSMA(series, shortWindow)
	if err != nil {
		return nil, fmt.Errorf("short sma: %w", err)
	}
	longMA, err := calculator.SeriesSMA(series, longWindow)
	if err != nil {
		return nil, fmt.Errorf("long sma: %w", err)
	}

	d := &Detection{
		ShortWindow:     shortWindow,
		LongWindowWeeks: longWindowWeeks,
		LongWindowDays:  longWindow,
	}
	for i, p := range series.Points {
		if !shortMA[i].Valid || !longMA[i].Valid {
			continue
		}
		d.Points = append(d.Points, model.AlignedPoint{
			Date:    p.Date,
			Close:   p.Close,
			ShortMA: shortMA[i].Decimal,
			LongMA:  longMA[i].Decimal,
		})
	}
	if len(d.Points) == 0 {
		return nil, model.InsufficientHistory("not enough data points to calculate the moving averages after cleanup")
	}

	d.Diffs = make([]decimal.Decimal, len(d.Points))
	for i, p := range d.Points {
		d.Diffs[i] = p.Diff()
		if i == 0 {
			continue
		}
		kind, ok, err := classify(d.Diffs[i-1], d.Diffs[i])
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", p.Date.Format(model.DateLayout), err)
		}
		if !ok {
			continue
		}
		d.Events = append(d.Events, model.SignalEvent{
			Index:   i,
			Date:    p.Date,
			Price:   p.Close,
			ShortMA: p.ShortMA,
			LongMA:  p.LongMA,
			Kind:    kind,
		})
	}
	return d, nil
}

// classify applies the crossover predicates. A diff of exactly zero counts as
// "above" for a Buy and as "below" for a Sell.
func classify(prev, cur decimal.Decimal) (model.SignalKind, bool, error) {
	buy := prev.IsNegative() && !cur.IsNegative()
	sell := prev.IsPositive() && !cur.IsPositive()
	switch {
	case buy && sell:
		return "", false, fmt.Errorf("point is both buy and sell (prev=%s, cur=%s)", prev, cur)
	case buy:
		return model.SignalBuy, true, nil
	case sell:
		return model.SignalSell, true, nil
	default:
		return "", false, nil
	}
}
