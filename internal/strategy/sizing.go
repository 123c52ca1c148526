package strategy

import (
	"fmt"
	"math"

	"CryptoSentinel/internal/model"
)

var (
	buyWinRates  = map[int]float64{5: 0.65, 4: 0.58, 3: 0.52, 2: 0.48, 1: 0.42}
	sellWinRates = map[int]float64{5: 0.60, 4: 0.55, 3: 0.50, 2: 0.45, 1: 0.40}
)

const (
	defaultBuyWinRate  = 0.50
	defaultSellWinRate = 0.48
	estimateSource     = "strength estimate (no backtest)"
)

// EstimatedWinRate returns the strength-indexed prior win probability.
func EstimatedWinRate(action model.Action, strength int) float64 {
	if action == model.ActionSell {
		if wr, ok := sellWinRates[strength]; ok {
			return wr
		}
		return defaultSellWinRate
	}
	if wr, ok := buyWinRates[strength]; ok {
		return wr
	}
	return defaultBuyWinRate
}

// Kelly returns the full Kelly fraction (p·b − (1−p)) / b. A non-positive
// payoff ratio yields 0.
func Kelly(winRate, payoff float64) float64 {
	if payoff <= 0 {
		return 0
	}
	return (winRate*payoff - (1 - winRate)) / payoff
}

// sizePosition computes half-Kelly sizing. Empirical stats are preferred when
// they carry a real win rate and average win; otherwise the strength table is
// combined with the T2 risk/reward ratio. The returned win rate is the one
// the fraction was computed from.
func sizePosition(action model.Action, strength int, rrT2 float64, prior *model.PerformanceStats) (model.PositionSizing, float64) {
	var (
		kelly   float64
		winRate float64
		source  string
	)
	if prior != nil && prior.WinRate > 0 && prior.AvgWin > 0 {
		winRate = prior.WinRate / 100
		avgLoss := math.Abs(prior.AvgLoss)
		if avgLoss > 0 {
			kelly = Kelly(winRate, prior.AvgWin/avgLoss)
		} else {
			kelly = noLossKelly
		}
		name := prior.Source
		if name == "" {
			name = "backtest"
		}
		source = fmt.Sprintf("%s win rate %.1f%%", name, prior.WinRate)
	} else {
		winRate = EstimatedWinRate(action, strength)
		kelly = Kelly(winRate, rrT2)
		source = estimateSource
	}

	kelly = clamp(kelly*halfKelly, 0, maxKelly)
	s := model.PositionSizing{
		KellyFraction:  round(kelly, 3),
		Conservative:   round(kelly*0.5, 3),
		Aggressive:     round(kelly*1.5, 3),
		MaxRiskPercent: MaxRiskPercent,
		KellySource:    source,
	}
	switch {
	case strength >= 4:
		s.Recommended = s.Aggressive
	case strength == 3:
		s.Recommended = s.KellyFraction
	default:
		s.Recommended = s.Conservative
	}
	limit := maxPositionBuy
	if action == model.ActionSell {
		limit = maxPositionSell
	}
	s.Recommended = math.Min(s.Recommended, limit)
	return s, winRate
}
