// Package analysis runs the backtest pipeline: collect prices, detect
// crossovers, then fold the signal stream into a ledger and two simulated
// portfolios.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"SignalBench/internal/crossover"
	"SignalBench/internal/ledger"
	"SignalBench/internal/model"
	"SignalBench/internal/strategy"
)

// PriceSource supplies a cleaned daily close series.
type PriceSource interface {
	Collect(ctx context.Context, symbol string, start time.Time) (model.PriceSeries, error)
}

// Analyzer runs backtests against one price source.
type Analyzer struct {
	Source PriceSource
	now    func() time.Time
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(source PriceSource) *Analyzer {
	return &Analyzer{Source: source, now: time.Now}
}

// Run executes one analysis. It returns either a complete result or a typed
// *model.AnalysisError.
func (a *Analyzer) Run(ctx context.Context, p Params) (res *model.AnalysisResult, err error) {
	p = p.Normalize()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] analysis %s panicked: %v", p.Symbol, r)
			res, err = nil, model.Unexpected(fmt.Errorf("panic: %v", r))
		}
	}()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	started := a.now()

	series, err := a.Source.Collect(ctx, p.Symbol, p.StartDate)
	if err != nil {
		return nil, typed(err)
	}
	det, err := crossover.Detect(series, p.ShortWindowDays, p.LongWindowWeeks)
	if err != nil {
		return nil, typed(err)
	}

	capital := p.StrategyCapital()
	full := strategy.FullExposure{}
	hybrid := strategy.HybridTarget{GrowthTargetPercent: p.GrowthTargetPercent}

	var (
		l               *ledger.Ledger
		fullOut, hybOut model.StrategyOutcome
		folds           foldGroup
	)
	folds.Go(func() { l = ledger.Build(det.Events) })
	folds.Go(func() { fullOut = full.Simulate(det.Points, det.Events, capital) })
	folds.Go(func() { hybOut = hybrid.Simulate(det.Points, det.Events, capital) })
	if err := folds.Wait(); err != nil {
		log.Printf("[ERROR] analysis %s: %v", p.Symbol, err)
		return nil, model.Unexpected(err)
	}

	elapsed := a.now().Sub(started)
	log.Printf("[INFO] analysis %s: %d aligned points, %d signals, %d trades in %s",
		p.Symbol, len(det.Points), len(det.Events), len(l.Trades), elapsed)
	return Assemble(p, det, l, fullOut, hybOut, elapsed), nil
}

// typed passes AnalysisErrors through and reports anything else as Unexpected.
func typed(err error) error {
	var ae *model.AnalysisError
	if errors.As(err, &ae) {
		return err
	}
	return model.Unexpected(err)
}

// foldGroup runs independent folds concurrently and turns a panic in any of
// them into an error.
type foldGroup struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

func (g *foldGroup) Go(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.mu.Lock()
				g.errs = append(g.errs, fmt.Errorf("panic: %v", r))
				g.mu.Unlock()
			}
		}()
		fn()
	}()
}

func (g *foldGroup) Wait() error {
	g.wg.Wait()
	return errors.Join(g.errs...)
}
