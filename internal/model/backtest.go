package model

import "time"

// ExitReason records how a simulated trade was resolved.
type ExitReason string

const (
	ExitStopHit   ExitReason = "STOP_HIT"
	ExitTargetHit ExitReason = "TARGET_HIT"
	ExitExpired   ExitReason = "EXPIRED"
)

// BacktestTrade is one simulated entry and its resolution.
type BacktestTrade struct {
	EntryIndex    int        `json:"entry_index"`
	EntryTime     time.Time  `json:"entry_time"`
	Action        Action     `json:"action"`
	EntryPrice    float64    `json:"entry_price"`
	StopLoss      float64    `json:"stop_loss"`
	TakeProfit    float64    `json:"take_profit"`
	ExitPrice     float64    `json:"exit_price"`
	ExitBarOffset int        `json:"exit_bar_offset"`
	ExitIndex     int        `json:"exit_index"`
	ExitReason    ExitReason `json:"exit_reason"`
	ProfitPct     float64    `json:"profit_pct"`
	Win           bool       `json:"win"`
}

// BacktestResult aggregates the trades of one simulation run. Error is set
// only when the run could not be performed (for example insufficient data).
type BacktestResult struct {
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	WinRate     float64         `json:"win_rate"`
	AvgProfit   float64         `json:"avg_profit"`
	AvgWin      float64         `json:"avg_win"`
	AvgLoss     float64         `json:"avg_loss"`
	MaxDrawdown float64         `json:"max_drawdown"`
	BestTrade   float64         `json:"best_trade"`
	WorstTrade  float64         `json:"worst_trade"`
	TotalTrades int             `json:"total_trades"`
	TotalReturn float64         `json:"total_return"`
	EquityCurve []float64       `json:"equity_curve"`
	Trades      []BacktestTrade `json:"trades,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// PerformanceStats is the empirical record used as a position-sizing prior.
// WinRate is a percentage; AvgWin and AvgLoss are profit percentages.
type PerformanceStats struct {
	WinRate     float64 `json:"win_rate"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
	TotalTrades int     `json:"total_trades"`
	Source      string  `json:"source"`
}

// Stats converts the result into a sizing prior. It returns nil when the run
// failed or produced no trades.
func (r BacktestResult) Stats() *PerformanceStats {
	if r.Error != "" || r.TotalTrades == 0 {
		return nil
	}
	return &PerformanceStats{
		WinRate:     r.WinRate,
		AvgWin:      r.AvgWin,
		AvgLoss:     r.AvgLoss,
		TotalTrades: r.TotalTrades,
		Source:      "backtest",
	}
}
