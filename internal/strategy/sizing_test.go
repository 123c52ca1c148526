package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CryptoSentinel/internal/model"
)

func TestKelly(t *testing.T) {
	assert.InDelta(t, 0.4, Kelly(0.6, 2), 1e-12)
	assert.Equal(t, 0.0, Kelly(0.6, 0))
	assert.Less(t, Kelly(0.3, 1), 0.0)
}

func TestEstimatedWinRate(t *testing.T) {
	assert.Equal(t, 0.65, EstimatedWinRate(model.ActionBuy, 5))
	assert.Equal(t, 0.42, EstimatedWinRate(model.ActionBuy, 1))
	assert.Equal(t, 0.55, EstimatedWinRate(model.ActionSell, 4))
	assert.Equal(t, 0.48, EstimatedWinRate(model.ActionSell, 9))
}

func TestSizePosition(t *testing.T) {
	tests := []struct {
		name        string
		action      model.Action
		strength    int
		rrT2        float64
		prior       *model.PerformanceStats
		kelly       float64
		recommended float64
		winRate     float64
	}{
		{
			name: "backtest prior capped at 15%", action: model.ActionBuy, strength: 3,
			prior: &model.PerformanceStats{WinRate: 60, AvgWin: 4, AvgLoss: -2},
			kelly: 0.15, recommended: 0.15, winRate: 0.6,
		},
		{
			name: "no losses uses fallback fraction", action: model.ActionBuy, strength: 5,
			prior: &model.PerformanceStats{WinRate: 100, AvgWin: 2, AvgLoss: 0},
			kelly: 0.05, recommended: 0.075, winRate: 1,
		},
		{
			name: "aggressive short hits 20% cap", action: model.ActionSell, strength: 5,
			prior: &model.PerformanceStats{WinRate: 70, AvgWin: 5, AvgLoss: 1},
			kelly: 0.15, recommended: 0.20, winRate: 0.7,
		},
		{
			name: "strength table with zero rr", action: model.ActionSell, strength: 2, rrT2: 0,
			kelly: 0, recommended: 0, winRate: 0.45,
		},
		{
			name: "strength table negative edge", action: model.ActionBuy, strength: 1, rrT2: 1,
			kelly: 0, recommended: 0, winRate: 0.42,
		},
		{
			name: "zero win rate prior is ignored", action: model.ActionBuy, strength: 2, rrT2: 1.5,
			prior: &model.PerformanceStats{WinRate: 0, AvgWin: 0, AvgLoss: -1},
			kelly: 0.067, recommended: 0.033, winRate: 0.48,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, wr := sizePosition(tt.action, tt.strength, tt.rrT2, tt.prior)
			assert.InDelta(t, tt.kelly, s.KellyFraction, 1e-9)
			assert.InDelta(t, tt.recommended, s.Recommended, 1e-9)
			assert.InDelta(t, tt.winRate, wr, 1e-9)
			assert.Equal(t, MaxRiskPercent, s.MaxRiskPercent)
		})
	}
}

func TestSimpleLevels(t *testing.T) {
	rp := DefaultRiskParams()

	buy, ok := SimpleLevels(model.Signal{Action: model.ActionBuy, Price: 100}, rp)
	assert.True(t, ok)
	assert.Equal(t, Levels{EntryLow: 99.75, EntryHigh: 100.25, StopLoss: 98, TakeProfit: 104, RiskReward: 2}, buy)

	sell, ok := SimpleLevels(model.Signal{Action: model.ActionSell, Price: 100}, rp)
	assert.True(t, ok)
	assert.Equal(t, 102.0, sell.StopLoss)
	assert.Equal(t, 96.0, sell.TakeProfit)

	_, ok = SimpleLevels(model.Signal{Action: model.ActionHold, Price: 100}, rp)
	assert.False(t, ok)

	small, ok := SimpleLevels(model.Signal{Action: model.ActionBuy, Price: 0.0123}, rp)
	assert.True(t, ok)
	assert.Equal(t, Levels{EntryLow: 0.012269, EntryHigh: 0.012331, StopLoss: 0.012054, TakeProfit: 0.012792, RiskReward: 2}, small)
}
