// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"SignalBench/internal/analysis"
	"SignalBench/internal/config"
	"SignalBench/internal/model"
	"SignalBench/internal/recorder"
	"SignalBench/internal/report"
	"SignalBench/internal/tickers"
)

// Runner executes one analysis.
type Runner interface {
	Run(ctx context.Context, p analysis.Params) (*model.AnalysisResult, error)
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	Analyzer Runner
	Tickers  *tickers.Directory
	Recorder recorder.Recorder
	Defaults config.Defaults
}

// errInvalidInput marks query values that could not be parsed.
var errInvalidInput = errors.New("invalid input value")

// Analyze runs a backtest for the query parameters, falling back to the
// configured defaults for anything omitted.
func (h *Handlers) Analyze(c *gin.Context) {
	p, err := h.parseParams(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.Analyzer.Run(c.Request.Context(), p)
	if err != nil {
		log.Printf("[WARN] analyze %s: %v", p.Symbol, err)
		writeError(c, err)
		return
	}
	if err := h.Recorder.RecordRun(recorder.NewRunRecord(recorder.SourceAPI, res)); err != nil {
		log.Printf("[ERROR] record run %s: %v", res.Symbol, err)
	}
	c.JSON(http.StatusOK, report.BuildResponse(res))
}

func (h *Handlers) parseParams(c *gin.Context) (analysis.Params, error) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if symbol == "" {
		return analysis.Params{}, model.InvalidParameter("Ticker symbol is required.")
	}

	long, err := queryInt(c, "long_ma_period", h.Defaults.LongMAWeeks)
	if err != nil {
		return analysis.Params{}, err
	}
	short, err := queryInt(c, "short_ma_period", h.Defaults.ShortMADays)
	if err != nil {
		return analysis.Params{}, err
	}
	startRaw := c.DefaultQuery("start_date", h.Defaults.StartDate)
	start, err := time.Parse(model.DateLayout, startRaw)
	if err != nil {
		return analysis.Params{}, fmt.Errorf("%w: start_date %q: expected YYYY-MM-DD", errInvalidInput, startRaw)
	}
	sum, err := queryDecimal(c, "initial_sum", h.Defaults.InitialSum)
	if err != nil {
		return analysis.Params{}, err
	}
	target, err := queryDecimal(c, "growth_target", h.Defaults.GrowthTargetPercent())
	if err != nil {
		return analysis.Params{}, err
	}

	if long <= 0 || short <= 0 || !sum.IsPositive() {
		return analysis.Params{}, model.InvalidParameter("MA periods and Starting Sum must be positive.")
	}
	return analysis.Params{
		Symbol:              symbol,
		LongWindowWeeks:     long,
		ShortWindowDays:     short,
		StartDate:           start,
		TotalCapital:        sum,
		GrowthTargetPercent: target,
	}, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", errInvalidInput, key, raw)
	}
	return v, nil
}

func queryDecimal(c *gin.Context, key string, def float64) (decimal.Decimal, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return decimal.NewFromFloat(def), nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", errInvalidInput, key, raw)
	}
	return v, nil
}

// SearchTickers answers ticker autocomplete.
func (h *Handlers) SearchTickers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tickers.Search(c.Query("q")))
}

// GetDefaults returns the form defaults.
func (h *Handlers) GetDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.Defaults)
}

// RecentRuns lists recorded analyses, newest first.
func (h *Handlers) RecentRuns(c *gin.Context) {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		writeError(c, err)
		return
	}
	runs, err := h.Recorder.RecentRuns(limit)
	if err != nil {
		log.Printf("[ERROR] list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list runs", "kind": model.KindUnexpected})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// CheckHealth reports liveness.
func (h *Handlers) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"tickers": h.Tickers.Len(),
	})
}

// writeError maps typed analysis failures to 400 and anything else to 500.
func writeError(c *gin.Context, err error) {
	var ae *model.AnalysisError
	switch {
	case errors.Is(err, errInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input value: " + strings.TrimPrefix(err.Error(), errInvalidInput.Error()+": "), "kind": model.KindInvalidParameter})
	case errors.As(err, &ae) && ae.Kind != model.KindUnexpected:
		c.JSON(http.StatusBadRequest, gin.H{"error": ae.Msg, "kind": ae.Kind})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during analysis: " + err.Error(), "kind": model.KindUnexpected})
	}
}
