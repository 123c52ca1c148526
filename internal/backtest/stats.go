package backtest

import (
	"math"

	"CryptoSentinel/internal/model"
)

// Aggregate derives the performance statistics from trades in entry order.
// The equity curve starts at InitialEquity and compounds each trade's profit.
func Aggregate(trades []model.BacktestTrade) model.BacktestResult {
	res := model.BacktestResult{EquityCurve: []float64{}, Trades: trades}
	if len(trades) == 0 {
		return res
	}

	var sum, winSum, lossSum float64
	res.BestTrade = math.Inf(-1)
	res.WorstTrade = math.Inf(1)
	equity := InitialEquity
	peak := equity
	res.EquityCurve = append(res.EquityCurve, equity)
	for _, t := range trades {
		sum += t.ProfitPct
		if t.Win {
			res.Wins++
			winSum += t.ProfitPct
		} else {
			res.Losses++
			lossSum += t.ProfitPct
		}
		res.BestTrade = math.Max(res.BestTrade, t.ProfitPct)
		res.WorstTrade = math.Min(res.WorstTrade, t.ProfitPct)

		equity *= 1 + t.ProfitPct/100
		res.EquityCurve = append(res.EquityCurve, equity)
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak * 100; dd > res.MaxDrawdown {
			res.MaxDrawdown = dd
		}
	}

	n := len(trades)
	res.TotalTrades = n
	res.WinRate = float64(res.Wins) / float64(n) * 100
	res.AvgProfit = sum / float64(n)
	if res.Wins > 0 {
		res.AvgWin = winSum / float64(res.Wins)
	}
	if res.Losses > 0 {
		res.AvgLoss = lossSum / float64(res.Losses)
	}
	res.TotalReturn = (equity/InitialEquity - 1) * 100
	return res
}
