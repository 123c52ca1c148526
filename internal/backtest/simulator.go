// Package backtest replays the signal pipeline over history and aggregates
// the simulated trades.
package backtest

import (
	"fmt"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/strategy"
)

const (
	// WarmupBars is the first index scored.
	WarmupBars = 50
	// LookaheadBars is how many candles a trade may stay open.
	LookaheadBars = 24
	// MinCandles is the shortest series a run accepts.
	MinCandles = 200
	// InitialEquity anchors the equity curve.
	InitialEquity = 10000.0
)

// InsufficientDataReason is the Error reason of a result computed from too few candles.
const InsufficientDataReason = "insufficient data"

// EvaluateFunc scores the causal window ending at its last point.
type EvaluateFunc func(window model.IndicatorFrame) model.Signal

// Simulator walks a candle series one candle at a time, opening at most one
// position at a time.
type Simulator struct {
	Params   calculator.Params
	Evaluate EvaluateFunc
}

// New returns a Simulator that scores with strategy.Evaluate and no sizing prior.
func New(p calculator.Params) *Simulator {
	return &Simulator{
		Params: p,
		Evaluate: func(window model.IndicatorFrame) model.Signal {
			return strategy.Evaluate(window, nil)
		},
	}
}

// Run simulates the series. Fewer than MinCandles candles yields a zero result
// flagged with InsufficientDataReason; malformed candles are an error.
func (s *Simulator) Run(candles []model.Candle) (model.BacktestResult, error) {
	if len(candles) < MinCandles {
		return model.BacktestResult{EquityCurve: []float64{}, Error: InsufficientDataReason}, nil
	}
	frame, err := calculator.Compute(candles, s.Params)
	if err != nil {
		return model.BacktestResult{}, fmt.Errorf("compute indicators: %w", err)
	}
	return s.RunFrame(frame), nil
}

// RunFrame simulates over an already computed frame, such as the one the
// collector returns for live analysis.
func (s *Simulator) RunFrame(frame model.IndicatorFrame) model.BacktestResult {
	if len(frame) < MinCandles {
		return model.BacktestResult{EquityCurve: []float64{}, Error: InsufficientDataReason}
	}
	evaluate := s.Evaluate
	if evaluate == nil {
		evaluate = New(s.Params).Evaluate
	}
	return Aggregate(walk(frame, evaluate))
}

// walk scores every eligible index and resolves each opened trade against
// the following closes. The frame is causal, so scoring frame.Upto(i) sees
// exactly what a live run at candle i would.
func walk(frame model.IndicatorFrame, evaluate EvaluateFunc) []model.BacktestTrade {
	var trades []model.BacktestTrade
	exitBar := -1
	for i := WarmupBars; i < len(frame)-LookaheadBars; i++ {
		if i <= exitBar {
			continue
		}
		sig := evaluate(frame.Upto(i))
		if !sig.Action.Actionable() || sig.TradePlan == nil {
			continue
		}
		entry := sig.Price
		if entry <= 0 {
			entry = frame[i].Close
		}
		stop, target := sig.TradePlan.Stops.HardStop, sig.TradePlan.Targets.T2
		if !validLevels(sig.Action, entry, stop, target) {
			continue
		}
		trade := resolve(frame, i, sig.Action, entry, stop, target)
		trades = append(trades, trade)
		exitBar = trade.ExitIndex
	}
	return trades
}

// validLevels requires positive levels on the correct side of entry.
func validLevels(action model.Action, entry, stop, target float64) bool {
	if stop <= 0 || target <= 0 {
		return false
	}
	if action == model.ActionBuy {
		return stop < entry && target > entry
	}
	return stop > entry && target < entry
}

// resolve scans the lookahead closes; the first breach of either level wins,
// otherwise the trade expires at the last close.
func resolve(frame model.IndicatorFrame, i int, action model.Action, entry, stop, target float64) model.BacktestTrade {
	trade := model.BacktestTrade{
		EntryIndex: i,
		EntryTime:  frame[i].Time,
		Action:     action,
		EntryPrice: entry,
		StopLoss:   stop,
		TakeProfit: target,
	}
	long := action == model.ActionBuy
	for k := 1; k <= LookaheadBars; k++ {
		c := frame[i+k].Close
		stopHit := (long && c < stop) || (!long && c > stop)
		targetHit := (long && c > target) || (!long && c < target)
		switch {
		case stopHit:
			trade.ExitPrice, trade.ExitReason = stop, model.ExitStopHit
		case targetHit:
			trade.ExitPrice, trade.ExitReason = target, model.ExitTargetHit
		default:
			continue
		}
		trade.ExitBarOffset = k
		break
	}
	if trade.ExitReason == "" {
		trade.ExitBarOffset = LookaheadBars
		trade.ExitPrice = frame[i+LookaheadBars].Close
		trade.ExitReason = model.ExitExpired
	}
	trade.ExitIndex = i + trade.ExitBarOffset
	if long {
		trade.ProfitPct = (trade.ExitPrice/entry - 1) * 100
	} else {
		trade.ProfitPct = (entry/trade.ExitPrice - 1) * 100
	}
	trade.Win = trade.ProfitPct > 0
	return trade
}
