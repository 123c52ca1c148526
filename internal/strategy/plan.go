package strategy

import (
	"math"

	"CryptoSentinel/internal/model"
)

// ClassifyRegime maps ADX to a market regime. Undefined ADX is ranging.
func ClassifyRegime(adx model.Value) model.Regime {
	v, ok := adx.Get()
	switch {
	case ok && v > 30:
		return model.RegimeTrendingStrong
	case ok && v > 20:
		return model.RegimeTrendingWeak
	default:
		return model.RegimeRanging
	}
}

// ClassifyVolatility maps ATR as a percentage of price to a volatility class.
func ClassifyVolatility(atrPercent float64) model.Volatility {
	switch {
	case atrPercent > 4:
		return model.VolatilityHigh
	case atrPercent > 2:
		return model.VolatilityMedium
	default:
		return model.VolatilityLow
	}
}

// Multipliers returns the stop and target distances in ATR units. High
// volatility widens the stop by 20%.
func Multipliers(regime model.Regime, vol model.Volatility) model.ATRMultipliers {
	var m model.ATRMultipliers
	switch regime {
	case model.RegimeTrendingStrong:
		m = model.ATRMultipliers{Stop: 2.5, Targets: [3]float64{3, 5, 8}}
	case model.RegimeTrendingWeak:
		m = model.ATRMultipliers{Stop: 2.0, Targets: [3]float64{2, 4, 6}}
	default:
		m = model.ATRMultipliers{Stop: 1.5, Targets: [3]float64{1.5, 3, 4}}
	}
	if vol == model.VolatilityHigh {
		m.Stop *= 1.2
	}
	return m
}

// BuildTradePlan derives entries, stops, targets, sizing and exits for an
// actionable signal from the indicator point it was scored on.
func BuildTradePlan(action model.Action, strength int, p model.IndicatorPoint, prior *model.PerformanceStats) model.TradePlan {
	price := p.Close
	atr := p.ATR.Or(0)
	atrPercent := 0.0
	if price > 0 {
		atrPercent = atr / price * 100
	}

	regime := ClassifyRegime(p.ADX)
	vol := ClassifyVolatility(atrPercent)
	mult := Multipliers(regime, vol)

	plan := model.TradePlan{
		Action:          action,
		MarketRegime:    regime,
		Volatility:      vol,
		ATRPercent:      round(atrPercent, 2),
		ATRMultipliers:  mult,
		MinAcceptableRR: MinAcceptableRR,
		TimeStop:        true,
	}

	// dir is +1 for long and −1 for short; every level mirrors through it.
	dir := 1.0
	if action == model.ActionSell {
		dir = -1
	}
	support, hasSupport := p.Support.Positive()
	resistance, hasResistance := p.Resistance.Positive()
	bbMiddle, hasMiddle := p.BBMiddle.Positive()
	bbUpper, hasUpper := p.BBUpper.Positive()
	bbLower, hasLower := p.BBLower.Positive()
	px := priceRounder(price, atr)

	// Entries
	plan.Entries.Aggressive = price
	if action == model.ActionBuy {
		switch {
		case hasMiddle && price > bbMiddle:
			plan.Entries.Conservative = px(bbMiddle)
		case hasSupport:
			plan.Entries.Conservative = px(support * (1 + levelOffset))
		default:
			plan.Entries.Conservative = px(price * (1 - pullbackPercent))
		}
		switch {
		case hasSupport && hasLower:
			plan.Entries.Ideal = px(math.Max(support, bbLower))
		case hasSupport:
			plan.Entries.Ideal = px(support)
		case hasLower:
			plan.Entries.Ideal = px(bbLower)
		default:
			plan.Entries.Ideal = px(price - atr*0.5)
		}
	} else {
		switch {
		case hasMiddle && price < bbMiddle:
			plan.Entries.Conservative = px(bbMiddle)
		case hasResistance:
			plan.Entries.Conservative = px(resistance * (1 - levelOffset))
		default:
			plan.Entries.Conservative = px(price * (1 + pullbackPercent))
		}
		switch {
		case hasResistance && hasUpper:
			plan.Entries.Ideal = px(math.Min(resistance, bbUpper))
		case hasResistance:
			plan.Entries.Ideal = px(resistance)
		case hasUpper:
			plan.Entries.Ideal = px(bbUpper)
		default:
			plan.Entries.Ideal = px(price + atr*0.5)
		}
	}
	plan.Entries.LimitOrder = plan.Entries.Conservative

	// Stops: the support/resistance level may tighten the ATR stop, never loosen it.
	hard := px(price - dir*atr*mult.Stop)
	if action == model.ActionBuy && hasSupport {
		hard = math.Max(hard, px(support*(1-levelOffset)))
	}
	if action == model.ActionSell && hasResistance {
		hard = math.Min(hard, px(resistance*(1+levelOffset)))
	}
	plan.Stops = model.Stops{
		HardStop:     hard,
		SoftStop:     px(hard * (1 - dir*softStopPercent)),
		TrailingStop: px(price * (1 + dir*trailingActivation)),
		MentalStop:   px(price * (1 - dir*mentalStopPercent)),
	}

	// Targets
	plan.Targets = model.Targets{
		T1: px(price + dir*atr*mult.Targets[0]),
		T2: px(price + dir*atr*mult.Targets[1]),
		T3: px(price + dir*atr*mult.Targets[2]),
	}
	if action == model.ActionBuy {
		if clamped := px(resistance * (1 - levelOffset)); hasResistance && resistance < plan.Targets.T1 && clamped > price {
			plan.Targets.T1 = clamped
		}
		plan.Targets.Moon = px(price * (1 + moonPercent))
		if hasUpper {
			plan.Targets.Moon = px(bbUpper)
		}
	} else {
		if clamped := px(support * (1 + levelOffset)); hasSupport && support > plan.Targets.T1 && clamped < price {
			plan.Targets.T1 = clamped
		}
		plan.Targets.Moon = px(price * (1 - moonPercent))
		if hasLower {
			plan.Targets.Moon = px(bbLower)
		}
	}

	// Risk/reward, signed so that a favorable move is positive for either side.
	risk := dir * (price - hard)
	rewardT2 := dir * (plan.Targets.T2 - price)
	if risk > 0 {
		plan.RiskReward = model.RiskReward{
			T1: round(dir*(plan.Targets.T1-price)/risk, 2),
			T2: round(rewardT2/risk, 2),
			T3: round(dir*(plan.Targets.T3-price)/risk, 2),
		}
	}
	plan.ActualBestRR = plan.RiskReward.T2

	var winRate float64
	plan.PositionSizing, winRate = sizePosition(action, strength, plan.RiskReward.T2, prior)
	plan.EstimatedWinRate = round(winRate*100, 1)
	if price > 0 && risk > 0 {
		plan.ExpectedReturn = round(winRate*(rewardT2/price*100)-(1-winRate)*(risk/price*100), 2)
	}

	plan.Pyramiding = model.Pyramiding{
		Enabled:      strength >= 4 && regime == model.RegimeTrendingStrong,
		AddOnLevels:  []float64{},
		ReduceSizeBy: ReduceSizeBy,
	}
	if plan.Pyramiding.Enabled {
		for _, step := range []float64{0.05, 0.10, 0.15} {
			plan.Pyramiding.AddOnLevels = append(plan.Pyramiding.AddOnLevels, px(price*(1+dir*step)))
		}
	}

	plan.HoldingPeriod = holdingPeriod(price, atr, plan.Targets, regime)
	plan.ExitStrategy = exitStrategy(action, plan.HoldingPeriod.MaxDays)
	plan.RiskWarnings = riskWarnings(action, plan, p)
	return plan
}

// holdingPeriod estimates candle counts from the ATR-normalized distance to T1 and T2.
func holdingPeriod(price, atr float64, t model.Targets, regime model.Regime) model.HoldingPeriod {
	toT1, toT2 := 5.0, 10.0
	if atr > 0 {
		toT1 = math.Abs(t.T1-price) / atr
		toT2 = math.Abs(t.T2-price) / atr
	}
	return model.HoldingPeriod{
		MinDays:      max(1, int(toT1*0.5)),
		ExpectedDays: int(toT1),
		MaxDays:      int(toT2),
		RegimeFactor: regime,
	}
}

func exitStrategy(action model.Action, timeStop int) model.ExitStrategy {
	if action == model.ActionSell {
		return model.ExitStrategy{
			T1Action:       model.ExitCoverThird,
			T2Action:       model.ExitCoverThird,
			T3Action:       model.ExitCoverRemaining,
			StopHit:        model.ExitCoverAllMarket,
			SignalReversal: model.ExitCoverAll,
			TimeStopBars:   timeStop,
		}
	}
	return model.ExitStrategy{
		T1Action:       model.ExitSellThird,
		T2Action:       model.ExitSellThird,
		T3Action:       model.ExitSellRemaining,
		StopHit:        model.ExitSellAllMarket,
		SignalReversal: model.ExitSellAll,
		TimeStopBars:   timeStop,
	}
}

func riskWarnings(action model.Action, plan model.TradePlan, p model.IndicatorPoint) []model.RiskWarning {
	warnings := []model.RiskWarning{}
	if plan.RiskReward.T1 < MinAcceptableRR {
		warnings = append(warnings, model.WarnLowRiskReward)
	}
	if plan.Volatility == model.VolatilityHigh {
		warnings = append(warnings, model.WarnHighVolatility)
	}
	if plan.MarketRegime == model.RegimeRanging {
		warnings = append(warnings, model.WarnRanging)
	}
	if ma, ok := p.VolumeMA.Positive(); ok && p.Volume < ma*lowVolumeRatio {
		warnings = append(warnings, model.WarnLowVolume)
	}
	if rsi, ok := p.RSI.Get(); ok {
		switch {
		case rsi > ReversalRSIHigh && action == model.ActionBuy:
			warnings = append(warnings, model.WarnRSIOverbought)
		case rsi < ReversalRSILow && action == model.ActionSell:
			warnings = append(warnings, model.WarnRSIOversold)
		}
	}
	return warnings
}
