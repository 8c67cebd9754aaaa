package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SignalBench/internal/analysis"
	"SignalBench/internal/config"
	"SignalBench/internal/model"
	"SignalBench/internal/recorder"
)

type fakeRunner struct {
	results map[string]*model.AnalysisResult
	params  []analysis.Params
}

func (f *fakeRunner) Run(_ context.Context, p analysis.Params) (*model.AnalysisResult, error) {
	f.params = append(f.params, p)
	res, ok := f.results[p.Symbol]
	if !ok {
		return nil, model.NoData(nil, "could not retrieve daily data for ticker '%s'", p.Symbol)
	}
	return res, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) SendWithRetry(ctx context.Context, text string, _ int) error {
	return f.Send(ctx, text)
}

type fakeRecorder struct {
	recorder.NoopRecorder
	runs []*recorder.RunRecord
}

func (f *fakeRecorder) RecordRun(rec *recorder.RunRecord) error {
	f.runs = append(f.runs, rec)
	return nil
}

var defaults = config.Defaults{Ticker: "AAPL", LongMAWeeks: 50, ShortMADays: 20, StartDate: "2010-01-01", InitialSum: 1000}

// result builds a two-point result with an optional event on the given index.
func result(symbol string, kind model.SignalKind, index int) *model.AnalysisResult {
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	n := decimal.NewFromInt
	res := &model.AnalysisResult{
		Symbol:              symbol,
		ShortWindowDays:     20,
		LongWindowWeeks:     50,
		TotalCapital:        n(1000),
		GrowthTargetPercent: n(10),
		Points: []model.AlignedPoint{
			{Date: d, Close: n(100), ShortMA: n(99), LongMA: n(100)},
			{Date: d.AddDate(0, 0, 1), Close: n(105), ShortMA: n(101), LongMA: n(100)},
		},
	}
	if kind != "" {
		p := res.Points[index]
		ev := model.SignalEvent{Index: index, Date: p.Date, Price: p.Close, ShortMA: p.ShortMA, LongMA: p.LongMA, Kind: kind}
		res.Events = []model.SignalEvent{ev}
		if kind == model.SignalBuy {
			res.Buys = res.Events
		} else {
			res.Sells = res.Events
		}
	}
	return res
}

func newTestScheduler(watchlist ...string) (*Scheduler, *fakeRunner, *fakeNotifier, *fakeRecorder) {
	run := &fakeRunner{results: map[string]*model.AnalysisResult{
		"AAPL": result("AAPL", model.SignalBuy, 1),  // fresh
		"MSFT": result("MSFT", model.SignalSell, 0), // stale
		"NVDA": result("NVDA", "", 0),
	}}
	n := &fakeNotifier{}
	rec := &fakeRecorder{}
	return NewScheduler(context.Background(), run, n, rec, defaults, watchlist), run, n, rec
}

func TestScan_AlertsOnFreshSignalsOnly(t *testing.T) {
	s, run, n, rec := newTestScheduler("AAPL", "MSFT", "NVDA", "GONE")

	res := s.Scan(context.Background())
	if res.Scanned != 3 {
		t.Errorf("expected 3 scanned symbols, got %d", res.Scanned)
	}
	if len(res.Alerts) != 1 || !strings.HasPrefix(res.Alerts[0], "AAPL Buy at $105.00") {
		t.Errorf("unexpected alerts: %v", res.Alerts)
	}
	if !errors.Is(res.Failed["GONE"], model.ErrNoData) {
		t.Errorf("expected GONE to fail with no data, got %v", res.Failed)
	}
	if len(n.sent) != 1 || !strings.Contains(n.sent[0], "AAPL BUY") {
		t.Errorf("expected one buy alert, got %v", n.sent)
	}
	if len(rec.runs) != 3 || rec.runs[0].Source != recorder.SourceScan {
		t.Errorf("expected 3 scan records, got %+v", rec.runs)
	}
	if p := run.params[0]; p.LongWindowWeeks != 50 || p.ShortWindowDays != 20 || !p.TotalCapital.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("scan should use configured defaults, got %+v", p)
	}

	digest := res.Digest()
	if !strings.Contains(digest, "3 symbols, 1 fresh signals, 1 failed") {
		t.Errorf("unexpected digest: %s", digest)
	}
}

func TestScan_StopsWhenCancelled(t *testing.T) {
	s, run, _, _ := newTestScheduler("AAPL", "MSFT")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := s.Scan(ctx); res.Scanned != 0 || len(run.params) != 0 {
		t.Errorf("expected no work after cancellation, got %+v", res)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _, rec := newTestScheduler("AAPL")
	ctx := context.Background()

	if reply := s.HandleCommand(ctx, "/analyze aapl"); !strings.Contains(reply, "<b>AAPL</b>") {
		t.Errorf("unexpected analyze reply: %s", reply)
	}
	if len(rec.runs) != 1 || rec.runs[0].Source != recorder.SourceBot {
		t.Errorf("expected a bot record, got %+v", rec.runs)
	}
	if reply := s.HandleCommand(ctx, "/analyze zzzz"); !strings.Contains(reply, "ZZZZ") || !strings.Contains(reply, "could not retrieve") {
		t.Errorf("unexpected error reply: %s", reply)
	}
	if reply := s.HandleCommand(ctx, "/analyze"); !strings.HasPrefix(reply, "Usage") {
		t.Errorf("unexpected usage reply: %s", reply)
	}
	if reply := s.HandleCommand(ctx, "/scan"); !strings.Contains(reply, "Scan complete") {
		t.Errorf("unexpected scan reply: %s", reply)
	}
	if reply := s.HandleCommand(ctx, "/watchlist"); reply != "Watchlist: AAPL" {
		t.Errorf("unexpected watchlist reply: %s", reply)
	}
	if reply := s.HandleCommand(ctx, "hello"); reply != helpText {
		t.Errorf("expected help text, got %s", reply)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _, _ := newTestScheduler()
	if err := s.RegisterAll("0 30 22 * * 1-5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected one cron entry, got %d", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("every day"); err == nil {
		t.Error("expected invalid spec error")
	}
}
