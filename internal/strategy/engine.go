package strategy

import "CryptoSentinel/internal/model"

// Evaluate scores the latest point of frame and decides an action. prior, when
// non-nil, replaces the strength-based win-rate estimate in position sizing.
// The result carries a trade plan iff the action is BUY or SELL.
func Evaluate(frame model.IndicatorFrame, prior *model.PerformanceStats) model.Signal {
	latest, prev, ok := frame.Latest()
	if !ok {
		return model.Signal{Action: model.ActionHold, Strength: 1, OBVTrend: model.OBVFlat}
	}
	c := newSnapshot(latest, prev, len(frame) > 1)

	// Step a: category scores
	components := model.ComponentScores{
		Trend:     scoreTrend(c),
		Momentum:  scoreMomentum(c),
		Volume:    scoreVolume(c),
		Technical: scoreTechnical(c),
	}

	// Step b: weighted total
	total := components.Trend*weightTrend +
		components.Momentum*weightMomentum +
		components.Volume*weightVolume +
		components.Technical*weightTechnical
	total = clamp(total, 0, 100)

	// Step c: risk adjustment and strength
	adjusted := clamp(total*riskFactor(c), 0, 100)
	strength := strengthFor(adjusted)

	// Step d: direction and action
	direction := directionScore(c)
	action, strength, reversal := decide(c, direction, strength)

	sig := model.Signal{
		Action:         action,
		Strength:       strength,
		Score:          round(adjusted, 2),
		RawScore:       round(total, 2),
		DirectionScore: direction,
		Components: model.ComponentScores{
			Trend:     round(components.Trend, 1),
			Momentum:  round(components.Momentum, 1),
			Volume:    round(components.Volume, 1),
			Technical: round(components.Technical, 1),
		},
		NearSupport:    c.nearSupport,
		NearResistance: c.nearResistance,
		Bouncing:       c.bouncing,
		OBVTrend:       c.obvTrend,
		ATRPercent:     round(c.atrPercent, 2),
		Panic:          c.panic,
		PanicReversal:  reversal,
		Price:          c.price,
		Time:           latest.Time,
		Indicators:     latest,
	}

	// Step e: trade plan
	if action.Actionable() {
		plan := BuildTradePlan(action, strength, latest, prior)
		sig.TradePlan = &plan
	}
	return sig
}

// decide applies the primary, fallback and panic-reversal rules, then the
// support/resistance veto. A signal without a positive ATR cannot be planned
// and stays HOLD.
func decide(c snapshot, direction, strength int) (model.Action, int, bool) {
	dirMin, strMin := directionThreshold, strengthThreshold
	if c.panic {
		dirMin, strMin = panicDirectionThreshold, panicStrengthThreshold
	}
	volatile := c.atrPercent >= MinVolatilityPercent

	action := model.ActionHold
	switch {
	case direction >= dirMin && strength >= strMin && volatile:
		action = model.ActionBuy
	case direction <= -dirMin && strength >= strMin && volatile:
		action = model.ActionSell
	case direction >= fallbackDirection && strength >= fallbackStrength:
		action = model.ActionBuy
	case direction <= -fallbackDirection && strength >= fallbackStrength:
		action = model.ActionSell
	}

	reversal := false
	if c.panic && action == model.ActionHold {
		rsi, _ := c.latest.RSI.Get()
		prevClose := c.latest.Close
		if c.hasPrev {
			prevClose = c.prev.Close
		}
		switch {
		case c.latest.RSI.Valid() && rsi < ReversalRSILow && c.price > c.latest.Open && c.price > prevClose:
			action, strength, reversal = model.ActionBuy, 4, true
		case c.latest.RSI.Valid() && rsi > ReversalRSIHigh && c.price < c.latest.Open && c.price < prevClose:
			action, strength, reversal = model.ActionSell, 4, true
		}
	}

	switch {
	case action == model.ActionBuy && c.nearResistance && !c.panic:
		action = model.ActionHold
	case action == model.ActionSell && c.nearSupport && c.bouncing && !c.panic:
		action = model.ActionHold
	}

	if _, ok := c.latest.ATR.Positive(); !ok {
		action = model.ActionHold
	}
	return action, strength, reversal
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
