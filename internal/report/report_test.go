package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"9.999", "$10.00"},
		{"1234.561", "$1,234.56"},
		{"-4", "-$4.00"},
		{"-1500.5", "-$1,500.50"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.RequireFromString("-44.4444")); got != "-44.44%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(decimal.NewFromInt(20)); got != "20.00%" {
		t.Errorf("got %q", got)
	}
}

func sampleResult() *model.AnalysisResult {
	d0 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 1)
	d2 := d0.AddDate(0, 0, 2)
	n := decimal.NewFromFloat
	buy := model.SignalEvent{Index: 1, Date: d1, Price: n(9), ShortMA: n(8), LongMA: n(7.9), Kind: model.SignalBuy}
	sell := model.SignalEvent{Index: 2, Date: d2, Price: n(5), ShortMA: n(6.5), LongMA: n(8), Kind: model.SignalSell}
	return &model.AnalysisResult{
		Symbol:          "TEST",
		ShortWindowDays: 20,
		LongWindowWeeks: 50,
		TotalCapital:    n(1000),
		Points: []model.AlignedPoint{
			{Date: d0, Close: n(7), ShortMA: n(7.5), LongMA: n(8)},
			{Date: d1, Close: n(9), ShortMA: n(8), LongMA: n(7.9)},
			{Date: d2, Close: n(5), ShortMA: n(6.5), LongMA: n(8)},
		},
		Buys:   []model.SignalEvent{buy},
		Sells:  []model.SignalEvent{sell},
		Events: []model.SignalEvent{buy, sell},
		Rows: []model.LedgerRow{
			{Date: d1, Kind: model.SignalBuy, Close: n(9), ShortMA: n(8), LongMA: n(7.9)},
			{Date: d2, Kind: model.SignalSell, Close: n(5), ShortMA: n(6.5), LongMA: n(8),
				GainValue: decimal.NewNullDecimal(n(-4)), GainPercent: decimal.NewNullDecimal(n(-44.4444))},
		},
		Stats: model.TradeStats{
			TotalTrades:        1,
			AverageGainValue:   decimal.NewNullDecimal(n(-4)),
			AverageGainPercent: decimal.NewNullDecimal(n(-44.4444)),
			AccuracyRate:       decimal.NewNullDecimal(decimal.Zero),
		},
		FullExposure: model.StrategyOutcome{Name: "ma_crossover", FinalValue: n(277.78), TotalGain: n(-222.22), ROIPercent: n(-44.444)},
		HybridTarget: model.StrategyOutcome{Name: "hybrid_target", FinalValue: n(500), TotalGain: decimal.Zero, ROIPercent: decimal.Zero},
	}
}

func TestBuildResponse(t *testing.T) {
	resp := BuildResponse(sampleResult())

	if resp.ShortHeader != "20 Day SMA" || resp.LongHeader != "50 Week SMA" {
		t.Errorf("unexpected headers: %q %q", resp.ShortHeader, resp.LongHeader)
	}
	if len(resp.Dates) != 3 || resp.Dates[0] != "2024-03-04" || resp.ClosePrices[1] != 9 || resp.LongMAPrices[1] != 7.9 {
		t.Errorf("unexpected chart series: %v %v %v", resp.Dates, resp.ClosePrices, resp.LongMAPrices)
	}
	if len(resp.BuySignalDates) != 1 || resp.BuySignalDates[0] != "2024-03-05" || resp.SellSignalPrices[0] != 5 {
		t.Errorf("unexpected markers: %v %v", resp.BuySignalDates, resp.SellSignalPrices)
	}

	if len(resp.TableData) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.TableData))
	}
	first, second := resp.TableData[0], resp.TableData[1]
	if first.Date != "2024-03-06" || first.SignalType != "Sell" {
		t.Errorf("expected most recent row first, got %+v", first)
	}
	if first.GainValue == nil || *first.GainValue != "-$4.00" || *first.GainPercent != "-44.44%" {
		t.Errorf("unexpected gain on sell row: %+v", first)
	}
	if second.GainValue != nil || second.ClosePrice != "$9.00" || second.LongMA != "$7.90" {
		t.Errorf("unexpected buy row: %+v", second)
	}

	if resp.AverageGainValue != "-$4.00" || resp.AverageGainPercent != "-44.44%" || resp.AccuracyRatePercent != "0.00%" {
		t.Errorf("unexpected stats: %s %s %s", resp.AverageGainValue, resp.AverageGainPercent, resp.AccuracyRatePercent)
	}
	if resp.InitialSum != 1000 || resp.Strategy1.FinalValue != 277.78 || resp.Strategy2.Name != "hybrid_target" {
		t.Errorf("unexpected strategies: %+v %+v", resp.Strategy1, resp.Strategy2)
	}
}

func TestBuildResponse_NoTrades(t *testing.T) {
	res := sampleResult()
	res.Buys, res.Sells, res.Events, res.Rows = nil, nil, nil, nil
	res.Stats = model.TradeStats{}

	resp := BuildResponse(res)
	if resp.AverageGainValue != NotAvailable || resp.AverageGainPercent != NotAvailable || resp.AccuracyRatePercent != NotAvailable {
		t.Errorf("expected N/A stats, got %+v", resp)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"table_data":[]`, `"buy_signal_dates":[]`, `"total_trades_display":0`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}
