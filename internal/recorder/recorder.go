package recorder

import (
	"time"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/strategy"
)

// SignalSnapshot holds everything produced for one symbol in one analysis cycle.
type SignalSnapshot struct {
	RunID    string
	Symbol   string
	Interval string
	Signal   model.Signal
	Levels   *strategy.Levels // nil for HOLD
}

// BacktestRun holds the backtest performed at the start of a cycle.
type BacktestRun struct {
	RunID    string
	Symbol   string
	Interval string
	Candles  int
	Result   model.BacktestResult
}

// SignalRecord is a stored signal snapshot as read back from history.
type SignalRecord struct {
	RunID      string       `json:"run_id"`
	RecordedAt time.Time    `json:"recorded_at"`
	Symbol     string       `json:"symbol"`
	Interval   string       `json:"interval"`
	CandleTime time.Time    `json:"candle_time"`
	Action     model.Action `json:"action"`
	Strength   int          `json:"strength"`
	Score      float64      `json:"score"`
	Price      float64      `json:"price"`
	ATRPercent float64      `json:"atr_percent"`
	Panic      bool         `json:"panic"`
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSignal(snap *SignalSnapshot) error
	RecordBacktest(run *BacktestRun) error
	// RecentSignals returns up to limit snapshots for symbol, newest first.
	RecentSignals(symbol string, limit int) ([]SignalRecord, error)
	Close() error
}
