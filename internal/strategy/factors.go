package strategy

import "CryptoSentinel/internal/model"

// snapshot is what the category scorers share about the latest candle.
type snapshot struct {
	latest, prev model.IndicatorPoint
	hasPrev      bool

	price      float64
	atrPercent float64
	hasATR     bool

	obvTrend       model.OBVTrend
	nearSupport    bool
	nearResistance bool
	bouncing       bool
	panic          bool
}

func newSnapshot(latest, prev model.IndicatorPoint, hasPrev bool) snapshot {
	c := snapshot{latest: latest, prev: prev, hasPrev: hasPrev, price: latest.Close, obvTrend: model.OBVFlat}

	if atr, ok := latest.ATR.Get(); ok && c.price > 0 {
		c.atrPercent = atr / c.price * 100
		c.hasATR = true
	}

	if obv, ok := latest.OBV.Get(); ok {
		if mean, ok := latest.OBVMean.Get(); ok {
			switch {
			case obv > mean*obvUpBand:
				c.obvTrend = model.OBVUp
			case obv < mean*obvDownBand:
				c.obvTrend = model.OBVDown
			}
		}
	}

	c.bouncing = hasPrev && c.price > prev.Close
	if support, ok := latest.Support.Positive(); ok {
		c.nearSupport = c.price <= support*nearSupportBand
	}
	if resistance, ok := latest.Resistance.Positive(); ok {
		c.nearResistance = c.price >= resistance*nearResistanceBand
	}

	if c.hasATR {
		rsi, ok := latest.RSI.Get()
		extremeRSI := ok && (rsi < PanicRSILow || rsi > PanicRSIHigh)
		c.panic = (c.atrPercent > PanicATRPercent && extremeRSI) || c.atrPercent > PanicATRPercentExtreme
	}
	return c
}

// greater compares two readings; ok is false when either is undefined.
func greater(a, b model.Value) (gt, ok bool) {
	x, okA := a.Get()
	y, okB := b.Get()
	if !okA || !okB {
		return false, false
	}
	return x > y, true
}

// scoreTrend awards EMA alignment, MACD above signal and ADX trend strength.
func scoreTrend(c snapshot) float64 {
	p := c.latest
	score := 0.0
	if gt, _ := greater(p.EMAShort, p.EMALong); gt {
		score += 25
	}
	if gt, _ := greater(p.EMAShort, p.EMAMedium); gt {
		score += 15
	}
	if gt, _ := greater(p.EMAMedium, p.EMABaseline); gt {
		score += 10
	}
	if gt, _ := greater(p.MACD, p.MACDSignal); gt {
		score += 25
	}
	if adx, ok := p.ADX.Get(); ok {
		switch {
		case adx > 25:
			score += 25
		case adx > 20:
			score += 12.5
		}
	}
	return score
}

// scoreMomentum bands RSI, credits stochastic crosses and rewards a
// strengthening MACD histogram.
func scoreMomentum(c snapshot) float64 {
	p := c.latest
	score := 0.0
	if rsi, ok := p.RSI.Get(); ok {
		switch {
		case rsi > 30 && rsi < 40:
			score += 50
		case rsi > 60 && rsi < 70:
			score += 25
		case rsi <= 30:
			score += 35
		case rsi >= 70:
			score += 10
		default:
			score += 40
		}
	}

	k, okK := p.StochK.Get()
	d, okD := p.StochD.Get()
	if okK && okD {
		switch {
		case k > d && k < 80:
			score += 30
		case k < d && k > 20:
			score += 15
		}
	}

	if c.hasPrev {
		hist, ok := p.MACDHistogram.Get()
		prevHist, okPrev := c.prev.MACDHistogram.Get()
		if ok && okPrev {
			switch {
			case hist > prevHist && hist > 0:
				score += 20
			case hist < prevHist && hist < 0:
				score += 10
			}
		}
	}
	return score
}

// scoreVolume weighs the OBV trend, relative volume and OBV/price divergence.
func scoreVolume(c snapshot) float64 {
	p := c.latest
	score := 0.0
	if p.OBVMean.Valid() {
		switch c.obvTrend {
		case model.OBVUp:
			score += 50
		case model.OBVDown:
			score += 20
		default:
			score += 30
		}
	}

	if ma, ok := p.VolumeMA.Positive(); ok {
		switch {
		case p.Volume > ma*1.5:
			score += 30
		case p.Volume > ma*1.2:
			score += 20
		default:
			score += 10
		}
	}

	if mean, ok := p.CloseMean.Get(); ok {
		priceUp := c.price > mean
		switch {
		case c.obvTrend == model.OBVDown && priceUp:
			score -= 20
		case c.obvTrend == model.OBVUp && !priceUp:
			score -= 10
		}
	}
	return score
}

// scoreTechnical rewards proximity to support, range position sweet spots
// and volatility.
func scoreTechnical(c snapshot) float64 {
	p := c.latest
	score := 0.0
	switch {
	case c.nearSupport && c.bouncing:
		score += 50
	case c.nearSupport:
		score += 30
	}
	if c.nearResistance && !c.bouncing {
		score += 20
	}

	support, okS := p.Support.Positive()
	resistance, okR := p.Resistance.Positive()
	if okS && okR && resistance > support {
		pos := (c.price - support) / (resistance - support)
		switch {
		case pos >= 0.2 && pos <= 0.4:
			score += 30
		case pos >= 0.6 && pos <= 0.8:
			score += 15
		}
	}

	if c.hasATR {
		switch {
		case c.atrPercent > 2:
			score += 20
		case c.atrPercent > 1:
			score += 15
		}
	}
	return score
}

// riskFactor penalizes thin volume, weak trends and extreme volatility,
// except under panic where volatility is boosted instead.
func riskFactor(c snapshot) float64 {
	if c.panic {
		return panicBoost
	}
	p := c.latest
	factor := 1.0
	if ma, ok := p.VolumeMA.Positive(); ok && p.Volume < ma*lowVolumeRatio {
		factor *= lowVolumePenalty
	}
	if adx, ok := p.ADX.Get(); ok && adx < weakTrendADX {
		factor *= weakTrendPenalty
	}
	if c.atrPercent > PanicATRPercentExtreme {
		factor *= extremeATRPenalty
	}
	return factor
}

func strengthFor(score float64) int {
	switch {
	case score >= 80:
		return 5
	case score >= 65:
		return 4
	case score >= 50:
		return 3
	case score >= 35:
		return 2
	default:
		return 1
	}
}

// directionScore tallies six ±1 votes. Undefined readings abstain.
func directionScore(c snapshot) int {
	p := c.latest
	score := 0
	vote := func(gt, ok bool) {
		if !ok {
			return
		}
		if gt {
			score++
		} else {
			score--
		}
	}
	vote(greater(p.EMAShort, p.EMALong))
	vote(greater(p.MACD, p.MACDSignal))
	vote(greater(p.StochK, p.StochD))

	if rsi, ok := p.RSI.Get(); ok {
		switch {
		case rsi <= 35:
			score++
		case rsi >= 65:
			score--
		}
	}

	switch c.obvTrend {
	case model.OBVUp:
		score++
	case model.OBVDown:
		score--
	}

	switch {
	case c.nearSupport && c.bouncing:
		score++
	case c.nearResistance && !c.bouncing:
		score--
	}
	return score
}
