package collector

import (
	"context"
	"time"

	"SignalBench/internal/model"
)

// Fetcher defines the interface for fetching daily closes.
type Fetcher interface {
	// FetchDailyCloses returns daily closes from start through today.
	FetchDailyCloses(ctx context.Context, symbol string, start time.Time) ([]model.PricePoint, error)
	Name() string
}
