package strategy

import "CryptoSentinel/internal/model"

// RiskParams are the fixed percentages of the simple level path.
type RiskParams struct {
	StopLossPct   float64 `yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gt=0,lt=100"`
	TakeProfitPct float64 `yaml:"take_profit_pct" json:"take_profit_pct" validate:"gt=0"`
}

// DefaultRiskParams returns a 2% stop and a 4% take-profit.
func DefaultRiskParams() RiskParams {
	return RiskParams{StopLossPct: 2, TakeProfitPct: 4}
}

const entryBand = 0.0025

// Levels is a fixed-percentage entry range, stop and take-profit around the
// current price, mirrored for shorts.
type Levels struct {
	EntryLow   float64 `json:"entry_low"`
	EntryHigh  float64 `json:"entry_high"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	RiskReward float64 `json:"risk_reward"`
}

// SimpleLevels returns the levels for an actionable signal. ok is false for
// HOLD or a non-positive price.
func SimpleLevels(sig model.Signal, rp RiskParams) (levels Levels, ok bool) {
	if !sig.Action.Actionable() || sig.Price <= 0 {
		return Levels{}, false
	}
	dir := 1.0
	if sig.Action == model.ActionSell {
		dir = -1
	}
	p := sig.Price
	px := priceRounder(p, 0)
	levels = Levels{
		EntryLow:   px(p * (1 - entryBand)),
		EntryHigh:  px(p * (1 + entryBand)),
		StopLoss:   px(p * (1 - dir*rp.StopLossPct/100)),
		TakeProfit: px(p * (1 + dir*rp.TakeProfitPct/100)),
	}
	if rp.StopLossPct > 0 {
		levels.RiskReward = round(rp.TakeProfitPct/rp.StopLossPct, 2)
	}
	return levels, true
}
