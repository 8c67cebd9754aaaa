package collector

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"SignalBench/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Points []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, _ string, _ time.Time) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.PricePoint, len(m.Points))
	copy(out, m.Points)
	return out, nil
}

// Collector fetches a symbol's history and turns it into a clean PriceSeries.
type Collector struct {
	Fetcher Fetcher
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, now: time.Now}
}

// Collect fetches daily closes since start. The result is sorted ascending
// with unique dates and positive closes only; an empty result is NoData.
func (c *Collector) Collect(ctx context.Context, symbol string, start time.Time) (model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	points, err := c.Fetcher.FetchDailyCloses(ctx, symbol, start)
	if err != nil {
		return model.PriceSeries{}, model.NoData(err, "could not retrieve daily data for ticker '%s' from %s", symbol, start.Format(model.DateLayout))
	}

	before := len(points)
	points = Clean(points, start)
	if dropped := before - len(points); dropped > 0 {
		log.Printf("[WARN] %s: dropped %d malformed or duplicate bars from %s", symbol, dropped, c.Fetcher.Name())
	}
	if len(points) == 0 {
		return model.PriceSeries{}, model.NoData(nil, "could not retrieve daily data for ticker '%s' from %s", symbol, start.Format(model.DateLayout))
	}

	return model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: c.now()}, nil
}

// Clean sorts points by date, drops non-positive closes and points before
// start, and keeps the last point for any repeated date.
func Clean(points []model.PricePoint, start time.Time) []model.PricePoint {
	sorted := make([]model.PricePoint, 0, len(points))
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for _, p := range points {
		if !p.Close.IsPositive() || p.Date.Before(startDay) {
			continue
		}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
