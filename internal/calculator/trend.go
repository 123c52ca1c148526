package calculator

import (
	"math"

	"CryptoSentinel/internal/model"
)

// DirectionalSeries holds the ADX family of indicators, aligned with the input candles.
type DirectionalSeries struct {
	ADX     []model.Value
	PlusDI  []model.Value
	MinusDI []model.Value
	ATR     []model.Value
}

// TrueRange returns max(high−low, |high−prevClose|, |low−prevClose|).
// The first candle has no previous close, so its range is high−low.
func TrueRange(high, low, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		tr[i] = high[i] - low[i]
		if i == 0 {
			continue
		}
		tr[i] = math.Max(tr[i], math.Abs(high[i]-closes[i-1]))
		tr[i] = math.Max(tr[i], math.Abs(low[i]-closes[i-1]))
	}
	return tr
}

// Directional computes ATR, +DI, −DI and ADX. ATR and the directional movement
// are smoothed with a rolling mean of the given period; ADX is the rolling
// mean of DX and is undefined while any DX in its window is undefined.
func Directional(high, low, closes []float64, period int) DirectionalSeries {
	n := len(closes)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	atr := SMA(TrueRange(high, low, closes), period)
	plusMean := SMA(plusDM, period)
	minusMean := SMA(minusDM, period)

	out := DirectionalSeries{
		ATR:     atr,
		PlusDI:  make([]model.Value, n),
		MinusDI: make([]model.Value, n),
	}
	dx := make([]model.Value, n)
	for i := 0; i < n; i++ {
		a, ok := atr[i].Positive()
		if !ok {
			continue
		}
		p, _ := plusMean[i].Get()
		m, _ := minusMean[i].Get()
		pdi := 100 * p / a
		mdi := 100 * m / a
		out.PlusDI[i] = model.Defined(pdi)
		out.MinusDI[i] = model.Defined(mdi)
		if sum := pdi + mdi; sum != 0 {
			dx[i] = model.Defined(100 * math.Abs(pdi-mdi) / sum)
		}
	}
	out.ADX = meanOfDefined(dx, period)
	return out
}
