package recorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"SignalBench/internal/model"
)

// Run sources.
const (
	SourceAPI  = "api"
	SourceScan = "scan"
	SourceBot  = "bot"
)

// RunRecord holds one analysis run as persisted.
type RunRecord struct {
	ID        string
	Source    string
	CreatedAt time.Time

	Symbol              string
	ShortWindowDays     int
	LongWindowWeeks     int
	StartDate           time.Time
	TotalCapital        decimal.Decimal
	GrowthTargetPercent decimal.Decimal

	AlignedPoints int
	Stats         model.TradeStats
	FullExposure  model.StrategyOutcome
	HybridTarget  model.StrategyOutcome
	Events        []model.SignalEvent
	DurationMS    int64
}

// NewRunRecord captures res under a fresh run ID.
func NewRunRecord(source string, res *model.AnalysisResult) *RunRecord {
	return &RunRecord{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now(),

		Symbol:              res.Symbol,
		ShortWindowDays:     res.ShortWindowDays,
		LongWindowWeeks:     res.LongWindowWeeks,
		StartDate:           res.StartDate,
		TotalCapital:        res.TotalCapital,
		GrowthTargetPercent: res.GrowthTargetPercent,

		AlignedPoints: len(res.Points),
		Stats:         res.Stats,
		FullExposure:  res.FullExposure,
		HybridTarget:  res.HybridTarget,
		Events:        res.Events,
		DurationMS:    res.Duration.Milliseconds(),
	}
}

// RunSummary is a stored run as listed back.
type RunSummary struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
	Symbol          string    `json:"ticker"`
	ShortWindowDays int       `json:"short_ma_period"`
	LongWindowWeeks int       `json:"long_ma_period"`
	TotalTrades     int       `json:"total_trades"`
	Signals         int       `json:"signals"`
	FullExposureROI string    `json:"strategy_1_roi"`
	HybridROI       string    `json:"strategy_2_roi"`
}

// Recorder persists analysis runs.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
