package calculator

import (
	"math"

	"CryptoSentinel/internal/model"
)

const (
	volumeChangeFloor   = -100.0
	volumeChangeCeiling = 1000.0
)

// OBV returns on-balance volume: volume is added on an up close, subtracted
// on a down close and ignored on an unchanged close. The first candle is 0.
func OBV(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = out[i-1]
		switch {
		case closes[i] > closes[i-1]:
			out[i] += volumes[i]
		case closes[i] < closes[i-1]:
			out[i] -= volumes[i]
		}
	}
	return out
}

// VolumeChange returns (volume / rolling mean − 1) × 100, clamped to
// [−100, 1000]. Undefined until the window fills or when the mean is zero.
func VolumeChange(volumes []float64, period int) []model.Value {
	means := SMA(volumes, period)
	out := make([]model.Value, len(volumes))
	for i, v := range volumes {
		mean, ok := means[i].Positive()
		if !ok {
			continue
		}
		pct := (v/mean - 1) * 100
		out[i] = model.Defined(math.Min(math.Max(pct, volumeChangeFloor), volumeChangeCeiling))
	}
	return out
}
