package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"SignalBench/internal/collector"
	"SignalBench/internal/config"
	"SignalBench/internal/model"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fetcher(closes ...float64) *collector.MockFetcher {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: decimal.NewFromFloat(c)}
	}
	return &collector.MockFetcher{Points: pts}
}

func params(symbol string) Params {
	return Params{
		Symbol:              symbol,
		LongWindowWeeks:     1,
		ShortWindowDays:     2,
		StartDate:           start,
		TotalCapital:        decimal.NewFromInt(1000),
		GrowthTargetPercent: decimal.NewFromInt(10),
	}
}

func near(t *testing.T, what string, got decimal.Decimal, want float64) {
	t.Helper()
	if math.Abs(got.InexactFloat64()-want) > 0.01 {
		t.Errorf("%s: expected ~%.2f, got %s", what, want, got)
	}
}

func run(t *testing.T, f *collector.MockFetcher, p Params) (*model.AnalysisResult, error) {
	t.Helper()
	return NewAnalyzer(collector.NewCollector(f)).Run(context.Background(), p)
}

func TestRun_NoCrossings(t *testing.T) {
	res, err := run(t, fetcher(100, 100, 100, 100, 100, 100, 100, 100), params("flat"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Symbol != "FLAT" {
		t.Errorf("expected upper-cased symbol, got %q", res.Symbol)
	}
	if len(res.Events) != 0 || len(res.Rows) != 0 || res.Stats.TotalTrades != 0 {
		t.Errorf("expected no signals, got %+v", res.Events)
	}
	if res.Stats.AverageGainValue.Valid || res.Stats.AccuracyRate.Valid {
		t.Errorf("stats should be undefined without trades: %+v", res.Stats)
	}
	for _, o := range []model.StrategyOutcome{res.FullExposure, res.HybridTarget} {
		if !o.FinalValue.Equal(decimal.NewFromInt(500)) || !o.ROIPercent.IsZero() {
			t.Errorf("%s: expected untouched half capital, got %+v", o.Name, o)
		}
	}
}

func TestRun_RoundTripWithTarget(t *testing.T) {
	res, err := run(t, fetcher(10, 9, 8, 7, 6, 7, 9, 12, 11, 8, 5, 4), params("TEST"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Points) != 8 || len(res.Buys) != 1 || len(res.Sells) != 1 {
		t.Fatalf("expected 8 points, 1 buy and 1 sell, got %d/%d/%d", len(res.Points), len(res.Buys), len(res.Sells))
	}

	if res.Stats.TotalTrades != 1 {
		t.Fatalf("expected 1 trade, got %d", res.Stats.TotalTrades)
	}
	if !res.Trades[0].GainValue.Equal(decimal.NewFromInt(-4)) {
		t.Errorf("expected gain -4, got %s", res.Trades[0].GainValue)
	}
	near(t, "gain percent", res.Trades[0].GainPercent, -44.44)
	if !res.Stats.AccuracyRate.Decimal.IsZero() {
		t.Errorf("expected 0%% accuracy, got %s", res.Stats.AccuracyRate.Decimal)
	}

	if !res.FullExposure.InitialCapital.Equal(decimal.NewFromInt(500)) {
		t.Errorf("each strategy should get half the capital, got %s", res.FullExposure.InitialCapital)
	}
	near(t, "full exposure", res.FullExposure.FinalValue, 277.78)
	near(t, "hybrid", res.HybridTarget.FinalValue, 472.22)

	fills := res.HybridTarget.Fills
	if len(fills) != 3 || fills[0].Action != model.FillBuy || fills[1].Action != model.FillTarget || fills[2].Action != model.FillSell {
		t.Errorf("unexpected hybrid fills: %+v", fills)
	}
	if _, ok := res.FreshSignal(); ok {
		t.Error("last signal is not on the last day")
	}
}

func TestRun_OpenPositionMarkedToMarket(t *testing.T) {
	res, err := run(t, fetcher(10, 9, 8, 7, 6, 7, 9, 12, 13, 14, 15, 16), params("TEST"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sells) != 0 || len(res.Trades) != 0 {
		t.Fatalf("expected no completed trades, got %+v", res.Trades)
	}
	if len(res.Rows) != 1 || res.Rows[0].Kind != model.SignalBuy {
		t.Errorf("expected a single open buy row, got %+v", res.Rows)
	}
	near(t, "full exposure", res.FullExposure.FinalValue, 888.89)
	near(t, "hybrid", res.HybridTarget.FinalValue, 777.78)
	near(t, "full exposure roi", res.FullExposure.ROIPercent, 77.78)
}

func TestRun_FreshSignalOnLastDay(t *testing.T) {
	res, err := run(t, fetcher(10, 9, 8, 7, 6, 7, 9, 12, 11, 8, 5), params("TEST"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev, ok := res.FreshSignal()
	if !ok || ev.Kind != model.SignalSell {
		t.Errorf("expected a fresh sell signal, got %+v (%v)", ev, ok)
	}
}

func TestRun_Errors(t *testing.T) {
	zeroCapital := params("TEST")
	zeroCapital.TotalCapital = decimal.Zero
	noSymbol := params(" ")
	noWindow := params("TEST")
	noWindow.ShortWindowDays = 0

	tests := []struct {
		name    string
		fetcher *collector.MockFetcher
		params  Params
		want    error
	}{
		{"fetch failure", &collector.MockFetcher{Err: errors.New("timeout")}, params("TEST"), model.ErrNoData},
		{"empty history", &collector.MockFetcher{}, params("TEST"), model.ErrNoData},
		{"short history", fetcher(1, 2, 3), params("TEST"), model.ErrInsufficientHistory},
		{"zero capital", fetcher(1, 2, 3, 4, 5), zeroCapital, model.ErrInvalidParameter},
		{"empty symbol", fetcher(1, 2, 3, 4, 5), noSymbol, model.ErrInvalidParameter},
		{"zero window", fetcher(1, 2, 3, 4, 5), noWindow, model.ErrInvalidParameter},
	}
	for _, tt := range tests {
		res, err := run(t, tt.fetcher, tt.params)
		if res != nil {
			t.Errorf("%s: expected no result alongside an error", tt.name)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestRun_InvalidParamsSkipFetch(t *testing.T) {
	f := fetcher(1, 2, 3)
	p := params("TEST")
	p.LongWindowWeeks = -1
	if _, err := run(t, f, p); !errors.Is(err, model.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
	if f.Calls != 0 {
		t.Errorf("expected no fetch, got %d calls", f.Calls)
	}
}

type panickingSource struct{}

func (panickingSource) Collect(context.Context, string, time.Time) (model.PriceSeries, error) {
	panic("corrupt provider state")
}

func TestRun_RecoversPanic(t *testing.T) {
	res, err := NewAnalyzer(panickingSource{}).Run(context.Background(), params("TEST"))
	if res != nil || !errors.Is(err, model.ErrUnexpected) {
		t.Errorf("expected unexpected error, got %v / %v", res, err)
	}
}

func TestFoldGroup_CollectsPanics(t *testing.T) {
	var g foldGroup
	ran := false
	g.Go(func() { ran = true })
	g.Go(func() { panic("boom") })
	err := g.Wait()
	if err == nil || !ran {
		t.Errorf("expected the healthy fold to run and the panic to surface, got ran=%v err=%v", ran, err)
	}
}

func TestFromDefaults(t *testing.T) {
	p, err := FromDefaults(" nvda", config.Defaults{LongMAWeeks: 50, ShortMADays: 20, StartDate: "2010-01-01", InitialSum: 1000, GrowthTarget: lo.ToPtr(12.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Symbol != "NVDA" || !p.StartDate.Equal(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)) || !p.GrowthTargetPercent.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("unexpected params: %+v", p)
	}
	if !p.StrategyCapital().Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected 500 per strategy, got %s", p.StrategyCapital())
	}
	zero, err := FromDefaults("X", config.Defaults{StartDate: "2010-01-01", GrowthTarget: lo.ToPtr(0.0)})
	if err != nil || !zero.GrowthTargetPercent.IsZero() {
		t.Errorf("expected a zero growth target, got %s (%v)", zero.GrowthTargetPercent, err)
	}
	if _, err := FromDefaults("X", config.Defaults{StartDate: "yesterday"}); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}
