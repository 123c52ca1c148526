package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/synth"
)

func TestClassifyRegime(t *testing.T) {
	tests := []struct {
		adx  model.Value
		want model.Regime
	}{
		{model.Defined(45), model.RegimeTrendingStrong},
		{model.Defined(30), model.RegimeTrendingWeak},
		{model.Defined(20.5), model.RegimeTrendingWeak},
		{model.Defined(20), model.RegimeRanging},
		{model.Undefined, model.RegimeRanging},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRegime(tt.adx), "adx %v", tt.adx)
	}
}

func TestMultipliers(t *testing.T) {
	m := Multipliers(model.RegimeTrendingWeak, model.VolatilityMedium)
	assert.Equal(t, 2.0, m.Stop)
	assert.Equal(t, [3]float64{2, 4, 6}, m.Targets)

	m = Multipliers(model.RegimeRanging, model.VolatilityHigh)
	assert.InDelta(t, 1.8, m.Stop, 1e-9)
	assert.Equal(t, [3]float64{1.5, 3, 4}, m.Targets)
}

func TestBuildTradePlan_StrongTrend(t *testing.T) {
	frame := computeFrame(t, synth.Linear(250, 100, 1, 0.5, 1000))
	for i := 30; i < len(frame); i++ {
		require.Greater(t, frame[i].ADX.Or(0), 30.0, "index %d", i)
	}
	last := frame[len(frame)-1]

	plan := BuildTradePlan(model.ActionBuy, 4, last, nil)

	assert.Equal(t, model.RegimeTrendingStrong, plan.MarketRegime)
	assert.Equal(t, model.VolatilityLow, plan.Volatility)
	assert.Equal(t, 2.5, plan.ATRMultipliers.Stop)
	assert.Equal(t, [3]float64{3, 5, 8}, plan.ATRMultipliers.Targets)

	assert.Equal(t, 345.25, plan.Stops.HardStop)
	assert.Equal(t, 353.5, plan.Targets.T1, "resistance just below price does not clamp T1")
	assert.Equal(t, 356.5, plan.Targets.T2)
	assert.Equal(t, 361.0, plan.Targets.T3)
	assert.Equal(t, model.RiskReward{T1: 1.2, T2: 2, T3: 3.2}, plan.RiskReward)
	assert.Equal(t, plan.RiskReward.T2, plan.ActualBestRR)

	assert.True(t, plan.Pyramiding.Enabled)
	require.Len(t, plan.Pyramiding.AddOnLevels, 3)
	assert.Less(t, plan.Pyramiding.AddOnLevels[0], plan.Pyramiding.AddOnLevels[1])
	assert.Less(t, plan.Pyramiding.AddOnLevels[1], plan.Pyramiding.AddOnLevels[2])

	assert.Equal(t, model.HoldingPeriod{MinDays: 1, ExpectedDays: 3, MaxDays: 5, RegimeFactor: model.RegimeTrendingStrong}, plan.HoldingPeriod)
	assert.Contains(t, plan.RiskWarnings, model.WarnLowRiskReward)
	assert.NotContains(t, plan.RiskWarnings, model.WarnRanging)
	assert.True(t, plan.TimeStop)
	assert.Equal(t, MinAcceptableRR, plan.MinAcceptableRR)

	weak := BuildTradePlan(model.ActionBuy, 3, last, nil)
	assert.False(t, weak.Pyramiding.Enabled)
	assert.Empty(t, weak.Pyramiding.AddOnLevels)
}

func TestBuildTradePlan_ConservativeEntryFallbacks(t *testing.T) {
	p := model.IndicatorPoint{
		Candle: model.Candle{Time: synth.At(0), Open: 100, High: 101, Low: 99, Close: 100, Volume: 10},
		ATR:    model.Defined(2),
	}
	buy := BuildTradePlan(model.ActionBuy, 3, p, nil)
	assert.Equal(t, 98.5, buy.Entries.Conservative, "flat pullback without bands or support")
	assert.Equal(t, 99.0, buy.Entries.Ideal, "half-ATR offset")
	assert.Equal(t, buy.Entries.Conservative, buy.Entries.LimitOrder)
	assert.Equal(t, 120.0, buy.Targets.Moon)

	sell := BuildTradePlan(model.ActionSell, 3, p, nil)
	assert.Equal(t, 101.5, sell.Entries.Conservative)
	assert.Equal(t, 101.0, sell.Entries.Ideal)
	assert.Equal(t, 80.0, sell.Targets.Moon)
}
