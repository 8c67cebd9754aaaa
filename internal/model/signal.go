package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalKind indicates the direction of a crossover.
type SignalKind string

const (
	SignalBuy  SignalKind = "Buy"
	SignalSell SignalKind = "Sell"
)

// SignalEvent is a detected crossover on the aligned series.
type SignalEvent struct {
	Index   int // position in the aligned series
	Date    time.Time
	Price   decimal.Decimal
	ShortMA decimal.Decimal
	LongMA  decimal.Decimal
	Kind    SignalKind
}

// TradeRecord is a Buy matched with the next Sell.
type TradeRecord struct {
	BuyDate     time.Time
	BuyPrice    decimal.Decimal
	SellDate    time.Time
	SellPrice   decimal.Decimal
	GainValue   decimal.Decimal
	GainPercent decimal.Decimal
}

// LedgerRow is one display row of the trade table. Gain fields are only
// valid on a Sell that closed a pending Buy.
type LedgerRow struct {
	Date        time.Time
	Kind        SignalKind
	Close       decimal.Decimal
	ShortMA     decimal.Decimal
	LongMA      decimal.Decimal
	GainValue   decimal.NullDecimal
	GainPercent decimal.NullDecimal
}

// TradeStats aggregates realized trades. The averages and the accuracy rate
// are invalid when TotalTrades is zero.
type TradeStats struct {
	TotalTrades        int
	AverageGainValue   decimal.NullDecimal
	AverageGainPercent decimal.NullDecimal
	AccuracyRate       decimal.NullDecimal
}
