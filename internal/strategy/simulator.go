// Package strategy replays crossover events through cash/holdings state
// machines to simulate capital allocation.
package strategy

import (
	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Simulator replays a signal stream over the aligned series.
type Simulator interface {
	Name() string
	Simulate(points []model.AlignedPoint, events []model.SignalEvent, capital decimal.Decimal) model.StrategyOutcome
}

// signalsByIndex spreads the events onto the aligned series.
func signalsByIndex(n int, events []model.SignalEvent) []model.SignalKind {
	kinds := make([]model.SignalKind, n)
	for _, ev := range events {
		if ev.Index >= 0 && ev.Index < n {
			kinds[ev.Index] = ev.Kind
		}
	}
	return kinds
}

// outcome marks any remaining holdings to market at the last close.
func outcome(name string, capital, cash, shares decimal.Decimal, points []model.AlignedPoint, fills []model.Fill) model.StrategyOutcome {
	final := cash
	if shares.IsPositive() && len(points) > 0 {
		final = final.Add(shares.Mul(points[len(points)-1].Close))
	}
	gain := final.Sub(capital)
	roi := decimal.Zero
	if !capital.IsZero() {
		roi = gain.Div(capital).Mul(hundred)
	}
	return model.StrategyOutcome{
		Name:           name,
		InitialCapital: capital,
		FinalValue:     final,
		TotalGain:      gain,
		ROIPercent:     roi,
		Fills:          fills,
	}
}
