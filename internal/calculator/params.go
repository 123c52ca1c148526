package calculator

import "fmt"

// Default indicator periods.
const (
	DefaultRSIPeriod          = 14
	DefaultMACDFast           = 12
	DefaultMACDSlow           = 26
	DefaultMACDSignal         = 9
	DefaultEMAShort           = 12
	DefaultEMALong            = 26
	DefaultEMAMedium          = 50
	DefaultEMABaseline        = 200
	DefaultBBPeriod           = 20
	DefaultBBStd              = 2.0
	DefaultADXPeriod          = 14
	DefaultStochPeriod        = 14
	DefaultStochDPeriod       = 3
	DefaultVolumePeriod       = 20
	DefaultRangePeriod        = 20
	DefaultVolumeChangePeriod = 7
	DefaultOBVTrendPeriod     = 20
	DefaultPriceTrendPeriod   = 10
)

// Params holds the indicator periods. The zero value is not usable; start from DefaultParams.
type Params struct {
	RSIPeriod          int     `yaml:"rsi_period" json:"rsi_period" validate:"gte=2"`
	MACDFast           int     `yaml:"macd_fast" json:"macd_fast" validate:"gte=1"`
	MACDSlow           int     `yaml:"macd_slow" json:"macd_slow" validate:"gtfield=MACDFast"`
	MACDSignal         int     `yaml:"macd_signal" json:"macd_signal" validate:"gte=1"`
	EMAShort           int     `yaml:"ema_short" json:"ema_short" validate:"gte=1"`
	EMALong            int     `yaml:"ema_long" json:"ema_long" validate:"gte=1"`
	EMAMedium          int     `yaml:"ema_medium" json:"ema_medium" validate:"gte=1"`
	EMABaseline        int     `yaml:"ema_baseline" json:"ema_baseline" validate:"gte=1"`
	BBPeriod           int     `yaml:"bb_period" json:"bb_period" validate:"gte=2"`
	BBStd              float64 `yaml:"bb_std" json:"bb_std" validate:"gt=0"`
	ADXPeriod          int     `yaml:"adx_period" json:"adx_period" validate:"gte=2"`
	StochPeriod        int     `yaml:"stoch_period" json:"stoch_period" validate:"gte=2"`
	StochDPeriod       int     `yaml:"stoch_d_period" json:"stoch_d_period" validate:"gte=1"`
	VolumePeriod       int     `yaml:"volume_period" json:"volume_period" validate:"gte=1"`
	RangePeriod        int     `yaml:"range_period" json:"range_period" validate:"gte=1"`
	VolumeChangePeriod int     `yaml:"volume_change_period" json:"volume_change_period" validate:"gte=1"`
	OBVTrendPeriod     int     `yaml:"obv_trend_period" json:"obv_trend_period" validate:"gte=1"`
	PriceTrendPeriod   int     `yaml:"price_trend_period" json:"price_trend_period" validate:"gte=1"`
}

// DefaultParams returns the standard periods.
func DefaultParams() Params {
	return Params{
		RSIPeriod:          DefaultRSIPeriod,
		MACDFast:           DefaultMACDFast,
		MACDSlow:           DefaultMACDSlow,
		MACDSignal:         DefaultMACDSignal,
		EMAShort:           DefaultEMAShort,
		EMALong:            DefaultEMALong,
		EMAMedium:          DefaultEMAMedium,
		EMABaseline:        DefaultEMABaseline,
		BBPeriod:           DefaultBBPeriod,
		BBStd:              DefaultBBStd,
		ADXPeriod:          DefaultADXPeriod,
		StochPeriod:        DefaultStochPeriod,
		StochDPeriod:       DefaultStochDPeriod,
		VolumePeriod:       DefaultVolumePeriod,
		RangePeriod:        DefaultRangePeriod,
		VolumeChangePeriod: DefaultVolumeChangePeriod,
		OBVTrendPeriod:     DefaultOBVTrendPeriod,
		PriceTrendPeriod:   DefaultPriceTrendPeriod,
	}
}

func (p Params) check() error {
	periods := []struct {
		name  string
		value int
	}{
		{"rsi_period", p.RSIPeriod},
		{"macd_fast", p.MACDFast},
		{"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal},
		{"ema_short", p.EMAShort},
		{"ema_long", p.EMALong},
		{"ema_medium", p.EMAMedium},
		{"ema_baseline", p.EMABaseline},
		{"bb_period", p.BBPeriod},
		{"adx_period", p.ADXPeriod},
		{"stoch_period", p.StochPeriod},
		{"stoch_d_period", p.StochDPeriod},
		{"volume_period", p.VolumePeriod},
		{"range_period", p.RangePeriod},
		{"volume_change_period", p.VolumeChangePeriod},
		{"obv_trend_period", p.OBVTrendPeriod},
		{"price_trend_period", p.PriceTrendPeriod},
	}
	for _, pp := range periods {
		if pp.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidParams, pp.name)
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("%w: macd_fast must be below macd_slow", ErrInvalidParams)
	}
	if p.BBStd <= 0 {
		return fmt.Errorf("%w: bb_std must be positive", ErrInvalidParams)
	}
	return nil
}
