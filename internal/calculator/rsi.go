package calculator

import "CryptoSentinel/internal/model"

// RSI computes the Wilder-smoothed RSI series. The first defined entry is at
// index period, seeded with the simple average of the first period changes.
// A window with gains but no losses saturates at 100; a window with no price
// movement at all is undefined.
func RSI(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) model.Value {
	if avgLoss == 0 {
		if avgGain == 0 {
			return model.Undefined
		}
		return model.Defined(100)
	}
	rs := avgGain / avgLoss
	return model.Defined(100 - 100/(1+rs))
}
