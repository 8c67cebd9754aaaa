package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"SignalBench/internal/analysis"
	"SignalBench/internal/config"
	"SignalBench/internal/model"
	"SignalBench/internal/notifier"
	"SignalBench/internal/recorder"
	"SignalBench/internal/report"
)

// Runner executes one analysis.
type Runner interface {
	Run(ctx context.Context, p analysis.Params) (*model.AnalysisResult, error)
}

// Scheduler runs the watchlist scan on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Runner
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Defaults  config.Defaults
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Overlapping scans are skipped.
func NewScheduler(ctx context.Context, run Runner, n notifier.Notifier, rec recorder.Recorder, defaults config.Defaults, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Analyzer:  run,
		Notifier:  n,
		Recorder:  rec,
		Defaults:  defaults,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the watchlist scan.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// ScanResult summarizes one pass over the watchlist.
type ScanResult struct {
	Scanned int
	Alerts  []string
	Failed  map[string]error
}

// Digest renders the scan as a chat message.
func (r ScanResult) Digest() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>Scan complete</b>: %d symbols, %d fresh signals", r.Scanned, len(r.Alerts)))
	if len(r.Failed) > 0 {
		b.WriteString(fmt.Sprintf(", %d failed", len(r.Failed)))
	}
	b.WriteString("\n")
	for _, a := range r.Alerts {
		b.WriteString("• " + a + "\n")
	}
	return b.String()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running watchlist scan")
	res := s.Scan(s.Ctx)
	log.Printf("[INFO] scan finished: %d scanned, %d alerts, %d failed", res.Scanned, len(res.Alerts), len(res.Failed))
}

// Scan analyses every watchlist symbol with the configured defaults, records
// each run and alerts on signals that fired on the latest trading day.
func (s *Scheduler) Scan(ctx context.Context) ScanResult {
	out := ScanResult{Failed: map[string]error{}}
	for _, symbol := range s.Watchlist {
		if ctx.Err() != nil {
			break
		}
		res, err := s.analyze(ctx, symbol, recorder.SourceScan)
		if err != nil {
			log.Printf("[ERROR] scan %s: %v", symbol, err)
			out.Failed[symbol] = err
			continue
		}
		out.Scanned++
		if ev, ok := res.FreshSignal(); ok {
			out.Alerts = append(out.Alerts, fmt.Sprintf("%s %s at %s", res.Symbol, ev.Kind, report.FormatCurrency(ev.Price)))
			s.trySend(ctx, notifier.FormatSignalAlert(res, ev))
		}
	}
	return out
}

func (s *Scheduler) analyze(ctx context.Context, symbol, source string) (*model.AnalysisResult, error) {
	p, err := analysis.FromDefaults(symbol, s.Defaults)
	if err != nil {
		return nil, err
	}
	res, err := s.Analyzer.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordRun(recorder.NewRunRecord(source, res)); err != nil {
		log.Printf("[ERROR] record run %s: %v", res.Symbol, err)
	}
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/scan":
		return s.Scan(ctx).Digest()
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL"
		}
		res, err := s.analyze(ctx, fields[1], recorder.SourceBot)
		if err != nil {
			return notifier.FormatError(strings.ToUpper(fields[1]), err)
		}
		return notifier.FormatRunSummary(res)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty."
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /scan - analyse the watchlist now\n• /analyze SYMBOL - backtest one ticker\n• /watchlist - show scanned symbols"

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
