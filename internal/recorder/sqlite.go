package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"SignalBench/internal/model"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while runs are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			source              TEXT NOT NULL,
			ticker              TEXT NOT NULL,
			short_ma_days       INTEGER,
			long_ma_weeks       INTEGER,
			start_date          TEXT,
			initial_sum         TEXT,
			growth_target       TEXT,
			aligned_points      INTEGER,
			total_trades        INTEGER,
			avg_gain_value      TEXT,
			avg_gain_percent    TEXT,
			accuracy_rate       TEXT,
			s1_final_value      TEXT,
			s1_total_gain       TEXT,
			s1_roi              TEXT,
			s2_final_value      TEXT,
			s2_total_gain       TEXT,
			s2_roi              TEXT,
			duration_ms         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ticker ON analysis_runs(ticker)`,

		`CREATE TABLE IF NOT EXISTS signal_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES analysis_runs(id),
			date        TEXT NOT NULL,
			signal_type TEXT NOT NULL,
			close_price TEXT,
			short_ma    TEXT,
			long_ma     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON signal_events(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run and its signal events in one transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	s := rec.Stats
	_, err = tx.Exec(`INSERT INTO analysis_runs
		(id, timestamp, source, ticker, short_ma_days, long_ma_weeks, start_date,
		 initial_sum, growth_target, aligned_points,
		 total_trades, avg_gain_value, avg_gain_percent, accuracy_rate,
		 s1_final_value, s1_total_gain, s1_roi,
		 s2_final_value, s2_total_gain, s2_roi, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.Source, rec.Symbol,
		rec.ShortWindowDays, rec.LongWindowWeeks, rec.StartDate.Format(model.DateLayout),
		rec.TotalCapital.String(), rec.GrowthTargetPercent.String(), rec.AlignedPoints,
		s.TotalTrades, nullString(s.AverageGainValue), nullString(s.AverageGainPercent), nullString(s.AccuracyRate),
		rec.FullExposure.FinalValue.String(), rec.FullExposure.TotalGain.String(), rec.FullExposure.ROIPercent.String(),
		rec.HybridTarget.FinalValue.String(), rec.HybridTarget.TotalGain.String(), rec.HybridTarget.ROIPercent.String(),
		rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, ev := range rec.Events {
		_, err := tx.Exec(`INSERT INTO signal_events
			(run_id, date, signal_type, close_price, short_ma, long_ma)
			VALUES (?,?,?,?,?,?)`,
			rec.ID, ev.Date.Format(model.DateLayout), string(ev.Kind),
			ev.Price.String(), ev.ShortMA.String(), ev.LongMA.String(),
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// RecentRuns lists the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT r.id, r.timestamp, r.source, r.ticker,
			r.short_ma_days, r.long_ma_weeks, r.total_trades, r.s1_roi, r.s2_roi,
			(SELECT COUNT(*) FROM signal_events e WHERE e.run_id = r.id)
		FROM analysis_runs r
		ORDER BY r.timestamp DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var (
			s  RunSummary
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.Source, &s.Symbol,
			&s.ShortWindowDays, &s.LongWindowWeeks, &s.TotalTrades,
			&s.FullExposureROI, &s.HybridROI, &s.Signals); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func nullString(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}
