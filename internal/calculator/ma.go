package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

// SMASeries computes a trailing simple moving average aligned to prices.
// Index i is invalid until a full window of period prices ends at i.
func SMASeries(prices []decimal.Decimal, period int) ([]decimal.NullDecimal, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]decimal.NullDecimal, len(prices))
	n := decimal.NewFromInt(int64(period))
	sum := decimal.Zero
	for i, p := range prices {
		sum = sum.Add(p)
		if i >= period {
			sum = sum.Sub(prices[i-period])
		}
		if i >= period-1 {
			out[i] = decimal.NewNullDecimal(sum.Div(n))
		}
	}
	return out, nil
}

// SeriesSMA computes the SMA series over the closes of a price series.
func SeriesSMA(series model.PriceSeries, period int) ([]decimal.NullDecimal, error) {
	return SMASeries(series.Closes(), period)
}
