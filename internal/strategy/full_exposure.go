package strategy

import (
	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

// FullExposure buys with all cash on a Buy and sells the whole position on a Sell.
type FullExposure struct{}

func (FullExposure) Name() string { return "ma_crossover" }

// fullState is either fullFlat or fullInvested.
type fullState interface{ isFullState() }

type fullFlat struct{ cash decimal.Decimal }

type fullInvested struct{ shares decimal.Decimal }

func (fullFlat) isFullState()     {}
func (fullInvested) isFullState() {}

// Simulate replays the events in chronological order, Sell before Buy on each point.
func (s FullExposure) Simulate(points []model.AlignedPoint, events []model.SignalEvent, capital decimal.Decimal) model.StrategyOutcome {
	kinds := signalsByIndex(len(points), events)
	var state fullState = fullFlat{cash: capital}
	var fills []model.Fill

	for i, p := range points {
		if st, ok := state.(fullInvested); ok && kinds[i] == model.SignalSell {
			fills = append(fills, model.Fill{Date: p.Date, Action: model.FillSell, Shares: st.shares, Price: p.Close})
			state = fullFlat{cash: st.shares.Mul(p.Close)}
		}
		if st, ok := state.(fullFlat); ok && kinds[i] == model.SignalBuy && st.cash.IsPositive() {
			shares := st.cash.Div(p.Close)
			fills = append(fills, model.Fill{Date: p.Date, Action: model.FillBuy, Shares: shares, Price: p.Close})
			state = fullInvested{shares: shares}
		}
	}

	switch st := state.(type) {
	case fullInvested:
		return outcome(s.Name(), capital, decimal.Zero, st.shares, points, fills)
	case fullFlat:
		return outcome(s.Name(), capital, st.cash, decimal.Zero, points, fills)
	}
	return outcome(s.Name(), capital, decimal.Zero, decimal.Zero, points, fills)
}
