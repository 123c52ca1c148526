package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"CryptoSentinel/internal/logger"
	"CryptoSentinel/internal/model"
)

// SQLiteRecorder persists signal snapshots and backtest runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP history endpoint read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.Component(log, "recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			interval        TEXT,
			candle_time     INTEGER,
			action          TEXT,
			strength        INTEGER,
			score           REAL,
			raw_score       REAL,
			direction_score INTEGER,
			price           REAL,
			atr_percent     REAL,
			panic           INTEGER,
			panic_reversal  INTEGER,
			trade_plan      TEXT,
			levels          TEXT,
			indicators      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_symbol_ts ON signal_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			interval     TEXT,
			candles      INTEGER,
			total_trades INTEGER,
			wins         INTEGER,
			losses       INTEGER,
			win_rate     REAL,
			avg_profit   REAL,
			max_drawdown REAL,
			total_return REAL,
			error        TEXT,
			result       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_symbol_ts ON backtest_runs(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *SQLiteRecorder) RecordSignal(snap *SignalSnapshot) error {
	sig := snap.Signal
	plan, err := toJSON(sig.TradePlan)
	if err != nil {
		return fmt.Errorf("encode trade plan: %w", err)
	}
	levels, err := toJSON(snap.Levels)
	if err != nil {
		return fmt.Errorf("encode levels: %w", err)
	}
	indicators, err := toJSON(sig.Indicators)
	if err != nil {
		return fmt.Errorf("encode indicators: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO signal_snapshots
		(run_id, timestamp, symbol, interval, candle_time,
		 action, strength, score, raw_score, direction_score,
		 price, atr_percent, panic, panic_reversal,
		 trade_plan, levels, indicators)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), snap.Symbol, snap.Interval, sig.Time.Unix(),
		string(sig.Action), sig.Strength, sig.Score, sig.RawScore, sig.DirectionScore,
		sig.Price, sig.ATRPercent, sig.Panic, sig.PanicReversal,
		plan, levels, indicators,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(run *BacktestRun) error {
	res := run.Result
	body, err := toJSON(res)
	if err != nil {
		return fmt.Errorf("encode backtest result: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO backtest_runs
		(run_id, timestamp, symbol, interval, candles,
		 total_trades, wins, losses, win_rate, avg_profit,
		 max_drawdown, total_return, error, result)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.RunID, time.Now().Unix(), run.Symbol, run.Interval, run.Candles,
		res.TotalTrades, res.Wins, res.Losses, res.WinRate, res.AvgProfit,
		res.MaxDrawdown, res.TotalReturn, res.Error, body,
	)
	return err
}

func (r *SQLiteRecorder) RecentSignals(symbol string, limit int) ([]SignalRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, symbol, interval, candle_time,
		action, strength, score, price, atr_percent, panic
		FROM signal_snapshots WHERE symbol = ? ORDER BY id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := []SignalRecord{}
	for rows.Next() {
		var (
			rec              SignalRecord
			recorded, candle int64
			action           string
		)
		if err := rows.Scan(&rec.RunID, &recorded, &rec.Symbol, &rec.Interval, &candle,
			&action, &rec.Strength, &rec.Score, &rec.Price, &rec.ATRPercent, &rec.Panic); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.RecordedAt = time.Unix(recorded, 0).UTC()
		rec.CandleTime = time.Unix(candle, 0).UTC()
		rec.Action = model.Action(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
