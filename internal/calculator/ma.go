package calculator

import (
	"math"

	"CryptoSentinel/internal/model"
)

// SMA returns the rolling simple moving average. Entries before the window
// is filled are undefined.
func SMA(values []float64, period int) []model.Value {
	out := make([]model.Value, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = model.Defined(sum / float64(period))
	}
	return out
}

// meanOfDefined is SMA over a series that may itself contain undefined
// entries; a window with any undefined entry yields undefined.
func meanOfDefined(values []model.Value, period int) []model.Value {
	out := make([]model.Value, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			v, defined := values[j].Get()
			if !defined {
				ok = false
				break
			}
			sum += v
		}
		if ok {
			out[i] = model.Defined(sum / float64(period))
		}
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded at the first observed value.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingStd returns the rolling population standard deviation.
func RollingStd(values []float64, period int) []model.Value {
	out := make([]model.Value, len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(period)
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		out[i] = model.Defined(math.Sqrt(variance / float64(period)))
	}
	return out
}

// Bollinger returns the upper, middle and lower bands: rolling mean ± k·std.
func Bollinger(closes []float64, period int, k float64) (upper, middle, lower []model.Value) {
	middle = SMA(closes, period)
	std := RollingStd(closes, period)
	upper = make([]model.Value, len(closes))
	lower = make([]model.Value, len(closes))
	for i := range closes {
		m, okM := middle[i].Get()
		s, okS := std[i].Get()
		if !okM || !okS {
			continue
		}
		upper[i] = model.Defined(m + s*k)
		lower[i] = model.Defined(m - s*k)
	}
	return upper, middle, lower
}

// MACD returns the MACD line (EMA fast − EMA slow), its signal line and the histogram.
func MACD(closes []float64, fast, slow, signal int) (line, signalLine, hist []float64) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(line, signal)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signalLine[i]
	}
	return line, signalLine, hist
}
