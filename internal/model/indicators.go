package model

// IndicatorPoint holds the indicators computed for one candle. Every value is
// derived only from candles up to and including this one.
type IndicatorPoint struct {
	Candle

	RSI           Value `json:"rsi"`
	MACD          Value `json:"macd"`
	MACDSignal    Value `json:"macd_signal"`
	MACDHistogram Value `json:"macd_histogram"`

	EMAShort    Value `json:"ema_short"`
	EMALong     Value `json:"ema_long"`
	EMAMedium   Value `json:"ema_medium"`
	EMABaseline Value `json:"ema_baseline"`

	BBUpper  Value `json:"bb_upper"`
	BBMiddle Value `json:"bb_middle"`
	BBLower  Value `json:"bb_lower"`

	ADX     Value `json:"adx"`
	PlusDI  Value `json:"plus_di"`
	MinusDI Value `json:"minus_di"`
	ATR     Value `json:"atr"`

	StochK Value `json:"stoch_k"`
	StochD Value `json:"stoch_d"`

	OBV          Value `json:"obv"`
	OBVMean      Value `json:"obv_mean"`
	VolumeMA     Value `json:"volume_ma"`
	VolumeChange Value `json:"volume_change"`
	CloseMean    Value `json:"close_mean"`

	Support    Value `json:"support"`
	Resistance Value `json:"resistance"`
}

// IndicatorFrame is an append-only sequence of IndicatorPoints, one per input candle.
type IndicatorFrame []IndicatorPoint

// Latest returns the last point and, when present, the one before it.
// prev equals latest for a single-point frame.
func (f IndicatorFrame) Latest() (latest, prev IndicatorPoint, ok bool) {
	n := len(f)
	if n == 0 {
		return IndicatorPoint{}, IndicatorPoint{}, false
	}
	latest = f[n-1]
	prev = latest
	if n > 1 {
		prev = f[n-2]
	}
	return latest, prev, true
}

// Upto returns the causal window ending at index i (inclusive).
func (f IndicatorFrame) Upto(i int) IndicatorFrame {
	return f[: i+1 : i+1]
}
