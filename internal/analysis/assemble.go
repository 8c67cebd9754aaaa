package analysis

import (
	"time"

	"SignalBench/internal/crossover"
	"SignalBench/internal/ledger"
	"SignalBench/internal/model"
)

// Assemble merges the independent fold results into one AnalysisResult.
func Assemble(p Params, det *crossover.Detection, l *ledger.Ledger, full, hybrid model.StrategyOutcome, elapsed time.Duration) *model.AnalysisResult {
	return &model.AnalysisResult{
		Symbol:              p.Symbol,
		ShortWindowDays:     p.ShortWindowDays,
		LongWindowWeeks:     p.LongWindowWeeks,
		StartDate:           p.StartDate,
		TotalCapital:        p.TotalCapital,
		GrowthTargetPercent: p.GrowthTargetPercent,

		Points: det.Points,
		Buys:   det.Buys(),
		Sells:  det.Sells(),
		Events: det.Events,

		Rows:   l.Rows,
		Trades: l.Trades,
		Stats:  l.Stats,

		FullExposure: full,
		HybridTarget: hybrid,

		Duration: elapsed,
	}
}
