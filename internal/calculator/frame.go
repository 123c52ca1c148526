package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"CryptoSentinel/internal/model"
)

var (
	ErrNoCandles       = errors.New("no candles provided")
	ErrNonMonotonic    = errors.New("candle timestamps are not strictly increasing")
	ErrMalformedCandle = errors.New("malformed candle")
	ErrInvalidParams   = errors.New("invalid indicator parameters")
)

// ValidateCandles rejects input the frame cannot be built from causally:
// missing timestamps, non-finite or non-positive prices, negative volume,
// high below low, and timestamps that do not strictly increase.
func ValidateCandles(candles []model.Candle) error {
	if len(candles) == 0 {
		return ErrNoCandles
	}
	for i, c := range candles {
		if c.Time.IsZero() {
			return fmt.Errorf("%w: index %d has no timestamp", ErrMalformedCandle, i)
		}
		for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: index %d has a non-finite field", ErrMalformedCandle, i)
			}
		}
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("%w: index %d has a non-positive price", ErrMalformedCandle, i)
		}
		if c.Volume < 0 {
			return fmt.Errorf("%w: index %d has negative volume", ErrMalformedCandle, i)
		}
		if c.High < c.Low {
			return fmt.Errorf("%w: index %d has high below low", ErrMalformedCandle, i)
		}
		if i > 0 && !c.Time.After(candles[i-1].Time) {
			return fmt.Errorf("%w: index %d (%s) follows %s", ErrNonMonotonic, i,
				c.Time.Format(time.RFC3339), candles[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Compute builds the indicator frame for candles, one point per candle.
// Every point depends only on candles at or before its index.
func Compute(candles []model.Candle, p Params) (model.IndicatorFrame, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	if err := ValidateCandles(candles); err != nil {
		return nil, err
	}

	n := len(candles)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		highs[i], lows[i], closes[i], volumes[i] = c.High, c.Low, c.Close, c.Volume
	}

	rsi := RSI(closes, p.RSIPeriod)
	macd, macdSignal, macdHist := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	emaShort := EMA(closes, p.EMAShort)
	emaLong := EMA(closes, p.EMALong)
	emaMedium := EMA(closes, p.EMAMedium)
	emaBaseline := EMA(closes, p.EMABaseline)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, p.BBPeriod, p.BBStd)
	dir := Directional(highs, lows, closes, p.ADXPeriod)
	stochK, stochD := Stochastic(highs, lows, closes, p.StochPeriod, p.StochDPeriod)
	obv := OBV(closes, volumes)
	obvMean := SMA(obv, p.OBVTrendPeriod)
	volumeMA := SMA(volumes, p.VolumePeriod)
	volumeChange := VolumeChange(volumes, p.VolumeChangePeriod)
	closeMean := SMA(closes, p.PriceTrendPeriod)
	support := RollingMin(lows, p.RangePeriod)
	resistance := RollingMax(highs, p.RangePeriod)

	frame := make(model.IndicatorFrame, n)
	for i, c := range candles {
		frame[i] = model.IndicatorPoint{
			Candle: c,

			RSI:           rsi[i],
			MACD:          model.Defined(macd[i]),
			MACDSignal:    model.Defined(macdSignal[i]),
			MACDHistogram: model.Defined(macdHist[i]),

			EMAShort:    model.Defined(emaShort[i]),
			EMALong:     model.Defined(emaLong[i]),
			EMAMedium:   model.Defined(emaMedium[i]),
			EMABaseline: model.Defined(emaBaseline[i]),

			BBUpper:  bbUpper[i],
			BBMiddle: bbMiddle[i],
			BBLower:  bbLower[i],

			ADX:     dir.ADX[i],
			PlusDI:  dir.PlusDI[i],
			MinusDI: dir.MinusDI[i],
			ATR:     dir.ATR[i],

			StochK: stochK[i],
			StochD: stochD[i],

			OBV:          model.Defined(obv[i]),
			OBVMean:      obvMean[i],
			VolumeMA:     volumeMA[i],
			VolumeChange: volumeChange[i],
			CloseMean:    closeMean[i],

			Support:    support[i],
			Resistance: resistance[i],
		}
	}
	return frame, nil
}
