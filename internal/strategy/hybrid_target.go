package strategy

import (
	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

// HybridTarget sells half of a position once the close reaches the growth
// target and the remainder on the next Sell signal.
type HybridTarget struct {
	GrowthTargetPercent decimal.Decimal
}

func (HybridTarget) Name() string { return "hybrid_target" }

// TargetPrice returns the partial-exit price for an entry at price.
func (s HybridTarget) TargetPrice(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Add(s.GrowthTargetPercent.Div(hundred)))
}

var oneHalf = decimal.RequireFromString("0.5")

// hybridState is one of hybridFlat, fullyInvested or partiallyExited.
type hybridState interface{ isHybridState() }

type hybridFlat struct{ cash decimal.Decimal }

// fullyInvested holds the whole entry; the target has not been hit yet.
type fullyInvested struct {
	shares decimal.Decimal
	half   decimal.Decimal
	target decimal.Decimal
}

// partiallyExited holds the remainder after the target sale.
type partiallyExited struct {
	cash   decimal.Decimal
	shares decimal.Decimal
}

func (hybridFlat) isHybridState()      {}
func (fullyInvested) isHybridState()   {}
func (partiallyExited) isHybridState() {}

// Simulate replays the events in chronological order. On each point the
// target check runs before the Sell check, so one point can both take the
// partial profit and exit fully.
func (s HybridTarget) Simulate(points []model.AlignedPoint, events []model.SignalEvent, capital decimal.Decimal) model.StrategyOutcome {
	kinds := signalsByIndex(len(points), events)
	var state hybridState = hybridFlat{cash: capital}
	var fills []model.Fill

	for i, p := range points {
		price := p.Close

		if st, ok := state.(fullyInvested); ok && price.GreaterThanOrEqual(st.target) {
			fills = append(fills, model.Fill{Date: p.Date, Action: model.FillTarget, Shares: st.half, Price: price})
			state = partiallyExited{
				cash:   st.half.Mul(price),
				shares: st.shares.Sub(st.half),
			}
		}

		if kinds[i] == model.SignalSell {
			switch st := state.(type) {
			case fullyInvested:
				fills = append(fills, model.Fill{Date: p.Date, Action: model.FillSell, Shares: st.shares, Price: price})
				state = hybridFlat{cash: st.shares.Mul(price)}
			case partiallyExited:
				fills = append(fills, model.Fill{Date: p.Date, Action: model.FillSell, Shares: st.shares, Price: price})
				state = hybridFlat{cash: st.cash.Add(st.shares.Mul(price))}
			}
		}

		if st, ok := state.(hybridFlat); ok && kinds[i] == model.SignalBuy && st.cash.IsPositive() {
			shares := st.cash.Div(price)
			target := s.TargetPrice(price)
			fills = append(fills, model.Fill{
				Date:        p.Date,
				Action:      model.FillBuy,
				Shares:      shares,
				Price:       price,
				TargetPrice: decimal.NewNullDecimal(target),
			})
			state = fullyInvested{shares: shares, half: shares.Mul(oneHalf), target: target}
		}
	}

	switch st := state.(type) {
	case fullyInvested:
		return outcome(s.Name(), capital, decimal.Zero, st.shares, points, fills)
	case partiallyExited:
		return outcome(s.Name(), capital, st.cash, st.shares, points, fills)
	case hybridFlat:
		return outcome(s.Name(), capital, st.cash, decimal.Zero, points, fills)
	}
	return outcome(s.Name(), capital, decimal.Zero, decimal.Zero, points, fills)
}
