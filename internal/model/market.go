package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on every external surface.
const DateLayout = "2006-01-02"

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// PriceSeries holds the daily closes of one symbol, ascending by date.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes extracts the close prices in series order.
func (s PriceSeries) Closes() []decimal.Decimal {
	closes := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// AlignedPoint is a price point where both moving averages are defined.
type AlignedPoint struct {
	Date    time.Time
	Close   decimal.Decimal
	ShortMA decimal.Decimal
	LongMA  decimal.Decimal
}

// Diff returns ShortMA - LongMA.
func (p AlignedPoint) Diff() decimal.Decimal {
	return p.ShortMA.Sub(p.LongMA)
}
