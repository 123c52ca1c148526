package calculator

import "CryptoSentinel/internal/model"

// Stochastic returns %K and %D. %K is undefined until the window fills and
// whenever the window's high equals its low.
func Stochastic(high, low, closes []float64, period, dPeriod int) (k, d []model.Value) {
	lowest := RollingMin(low, period)
	highest := RollingMax(high, period)
	k = make([]model.Value, len(closes))
	for i := range closes {
		lo, okLo := lowest[i].Get()
		hi, okHi := highest[i].Get()
		if !okLo || !okHi || hi == lo {
			continue
		}
		k[i] = model.Defined(100 * (closes[i] - lo) / (hi - lo))
	}
	return k, meanOfDefined(k, dPeriod)
}
