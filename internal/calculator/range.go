package calculator

import (
	"math"

	"CryptoSentinel/internal/model"
)

// RollingMin returns the lowest value over each trailing window. Used for support.
func RollingMin(values []float64, period int) []model.Value {
	return rollingExtreme(values, period, math.Min)
}

// RollingMax returns the highest value over each trailing window. Used for resistance.
func RollingMax(values []float64, period int) []model.Value {
	return rollingExtreme(values, period, math.Max)
}

func rollingExtreme(values []float64, period int, pick func(a, b float64) float64) []model.Value {
	out := make([]model.Value, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		ext := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			ext = pick(ext, values[j])
		}
		out[i] = model.Defined(ext)
	}
	return out
}
