// Package report converts an analysis result into the JSON document served
// to the chart and table front end. Floats appear only here.
package report

import (
	"fmt"

	"github.com/samber/lo"

	"SignalBench/internal/ledger"
	"SignalBench/internal/model"
)

// TableRow is one formatted signal row.
type TableRow struct {
	Date        string  `json:"date"`
	SignalType  string  `json:"signal_type"`
	ClosePrice  string  `json:"close_price"`
	ShortMA     string  `json:"short_ma"`
	LongMA      string  `json:"long_ma"`
	ShortHeader string  `json:"short_header"`
	LongHeader  string  `json:"long_header"`
	GainValue   *string `json:"gain_value"`
	GainPercent *string `json:"gain_percent"`
}

// StrategySummary is the end-of-run triple of one simulator.
type StrategySummary struct {
	Name       string  `json:"name"`
	FinalValue float64 `json:"final_value"`
	TotalGain  float64 `json:"total_gain"`
	ROI        float64 `json:"roi"`
}

// Response is the full analysis document.
type Response struct {
	Symbol string `json:"ticker"`

	Dates            []string  `json:"dates"`
	ClosePrices      []float64 `json:"close_prices"`
	ShortMAPrices    []float64 `json:"short_ma_prices"`
	LongMAPrices     []float64 `json:"long_ma_prices"`
	BuySignalDates   []string  `json:"buy_signal_dates"`
	BuySignalPrices  []float64 `json:"buy_signal_prices"`
	SellSignalDates  []string  `json:"sell_signal_dates"`
	SellSignalPrices []float64 `json:"sell_signal_prices"`

	ShortMAPeriod       int        `json:"short_ma_period"`
	LongMAPeriod        int        `json:"long_ma_period"`
	TableData           []TableRow `json:"table_data"`
	ShortHeader         string     `json:"short_header"`
	LongHeader          string     `json:"long_header"`
	AverageGainValue    string     `json:"average_gain_value"`
	AverageGainPercent  string     `json:"average_gain_percent"`
	TotalTradesDisplay  int        `json:"total_trades_display"`
	AccuracyRatePercent string     `json:"accuracy_rate_percent"`

	InitialSum float64         `json:"initial_sum"`
	Strategy1  StrategySummary `json:"strategy_1"`
	Strategy2  StrategySummary `json:"strategy_2"`
}

// ShortHeader labels the short moving average column.
func ShortHeader(days int) string { return fmt.Sprintf("%d Day SMA", days) }

// LongHeader labels the long moving average column.
func LongHeader(weeks int) string { return fmt.Sprintf("%d Week SMA", weeks) }

// BuildResponse renders res. Table rows are most recent first.
func BuildResponse(res *model.AnalysisResult) *Response {
	short, long := ShortHeader(res.ShortWindowDays), LongHeader(res.LongWindowWeeks)

	rows := lo.Map(ledger.SortForDisplay(res.Rows), func(r model.LedgerRow, _ int) TableRow {
		row := TableRow{
			Date:        r.Date.Format(model.DateLayout),
			SignalType:  string(r.Kind),
			ClosePrice:  FormatCurrency(r.Close),
			ShortMA:     FormatCurrency(r.ShortMA),
			LongMA:      FormatCurrency(r.LongMA),
			ShortHeader: short,
			LongHeader:  long,
		}
		if r.GainValue.Valid {
			row.GainValue = lo.ToPtr(FormatCurrency(r.GainValue.Decimal))
			row.GainPercent = lo.ToPtr(FormatPercent(r.GainPercent.Decimal))
		}
		return row
	})

	return &Response{
		Symbol: res.Symbol,

		Dates:            lo.Map(res.Points, func(p model.AlignedPoint, _ int) string { return p.Date.Format(model.DateLayout) }),
		ClosePrices:      lo.Map(res.Points, func(p model.AlignedPoint, _ int) float64 { return p.Close.InexactFloat64() }),
		ShortMAPrices:    lo.Map(res.Points, func(p model.AlignedPoint, _ int) float64 { return p.ShortMA.InexactFloat64() }),
		LongMAPrices:     lo.Map(res.Points, func(p model.AlignedPoint, _ int) float64 { return p.LongMA.InexactFloat64() }),
		BuySignalDates:   eventDates(res.Buys),
		BuySignalPrices:  eventPrices(res.Buys),
		SellSignalDates:  eventDates(res.Sells),
		SellSignalPrices: eventPrices(res.Sells),

		ShortMAPeriod:       res.ShortWindowDays,
		LongMAPeriod:        res.LongWindowWeeks,
		TableData:           rows,
		ShortHeader:         short,
		LongHeader:          long,
		AverageGainValue:    formatNullCurrency(res.Stats.AverageGainValue),
		AverageGainPercent:  formatNullPercent(res.Stats.AverageGainPercent),
		TotalTradesDisplay:  res.Stats.TotalTrades,
		AccuracyRatePercent: formatNullPercent(res.Stats.AccuracyRate),

		InitialSum: res.TotalCapital.InexactFloat64(),
		Strategy1:  summarize(res.FullExposure),
		Strategy2:  summarize(res.HybridTarget),
	}
}

func summarize(o model.StrategyOutcome) StrategySummary {
	return StrategySummary{
		Name:       o.Name,
		FinalValue: o.FinalValue.InexactFloat64(),
		TotalGain:  o.TotalGain.InexactFloat64(),
		ROI:        o.ROIPercent.InexactFloat64(),
	}
}

func eventDates(events []model.SignalEvent) []string {
	return lo.Map(events, func(ev model.SignalEvent, _ int) string { return ev.Date.Format(model.DateLayout) })
}

func eventPrices(events []model.SignalEvent) []float64 {
	return lo.Map(events, func(ev model.SignalEvent, _ int) float64 { return ev.Price.InexactFloat64() })
}
