package analysis

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SignalBench/internal/config"
	"SignalBench/internal/model"
)

// Params are the inputs of one backtest run.
type Params struct {
	Symbol              string
	LongWindowWeeks     int
	ShortWindowDays     int
	StartDate           time.Time
	TotalCapital        decimal.Decimal
	GrowthTargetPercent decimal.Decimal
}

// Normalize upper-cases and trims the symbol.
func (p Params) Normalize() Params {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	return p
}

// Validate reports the first invalid field as an InvalidParameter error.
func (p Params) Validate() error {
	switch {
	case strings.TrimSpace(p.Symbol) == "":
		return model.InvalidParameter("ticker symbol is required")
	case p.ShortWindowDays <= 0:
		return model.InvalidParameter("short moving average period must be positive, got %d", p.ShortWindowDays)
	case p.LongWindowWeeks <= 0:
		return model.InvalidParameter("long moving average period must be positive, got %d", p.LongWindowWeeks)
	case p.StartDate.IsZero():
		return model.InvalidParameter("start date is required")
	case !p.TotalCapital.IsPositive():
		return model.InvalidParameter("initial sum must be positive, got %s", p.TotalCapital)
	}
	return nil
}

// StrategyCapital is the share of the total capital each simulator receives.
func (p Params) StrategyCapital() decimal.Decimal {
	return p.TotalCapital.Div(decimal.NewFromInt(2))
}

// FromDefaults builds Params for symbol from configured defaults.
func FromDefaults(symbol string, d config.Defaults) (Params, error) {
	start, err := time.Parse(model.DateLayout, d.StartDate)
	if err != nil {
		return Params{}, model.InvalidParameter("invalid start date %q", d.StartDate)
	}
	p := Params{
		Symbol:              symbol,
		LongWindowWeeks:     d.LongMAWeeks,
		ShortWindowDays:     d.ShortMADays,
		StartDate:           start,
		TotalCapital:        decimal.NewFromFloat(d.InitialSum),
		GrowthTargetPercent: decimal.NewFromFloat(d.GrowthTargetPercent()),
	}
	return p.Normalize(), nil
}
