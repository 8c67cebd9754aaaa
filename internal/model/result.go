package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillAction is a portfolio transaction recorded by a simulator.
type FillAction string

const (
	FillBuy    FillAction = "BUY"
	FillTarget FillAction = "TARGET" // partial exit at the growth target
	FillSell   FillAction = "SELL"
)

// Fill records one simulated transaction.
type Fill struct {
	Date        time.Time
	Action      FillAction
	Shares      decimal.Decimal
	Price       decimal.Decimal
	TargetPrice decimal.NullDecimal // set on hybrid entries only
}

// StrategyOutcome is the end-of-run result of one simulator.
type StrategyOutcome struct {
	Name           string
	InitialCapital decimal.Decimal
	FinalValue     decimal.Decimal
	TotalGain      decimal.Decimal
	ROIPercent     decimal.Decimal
	Fills          []Fill
}

// AnalysisResult is the complete output of one backtest run.
type AnalysisResult struct {
	Symbol              string
	ShortWindowDays     int
	LongWindowWeeks     int
	StartDate           time.Time
	TotalCapital        decimal.Decimal
	GrowthTargetPercent decimal.Decimal

	Points []AlignedPoint
	Buys   []SignalEvent
	Sells  []SignalEvent
	Events []SignalEvent // chronological, interleaved

	Rows   []LedgerRow // chronological
	Trades []TradeRecord
	Stats  TradeStats

	FullExposure StrategyOutcome
	HybridTarget StrategyOutcome

	Duration time.Duration
}

// LastEvent returns the most recent signal event, if any.
func (r *AnalysisResult) LastEvent() (SignalEvent, bool) {
	if len(r.Events) == 0 {
		return SignalEvent{}, false
	}
	return r.Events[len(r.Events)-1], true
}

// FreshSignal reports whether a signal fired on the last aligned day.
func (r *AnalysisResult) FreshSignal() (SignalEvent, bool) {
	ev, ok := r.LastEvent()
	if !ok || len(r.Points) == 0 {
		return SignalEvent{}, false
	}
	if ev.Index != len(r.Points)-1 {
		return SignalEvent{}, false
	}
	return ev, true
}
