package strategy

// Category weights of the weighted total.
const (
	weightTrend     = 0.35
	weightMomentum  = 0.30
	weightVolume    = 0.25
	weightTechnical = 0.10
)

// Panic detection. These are fixed, not configurable.
const (
	PanicATRPercent        = 3.0
	PanicATRPercentExtreme = 5.0
	PanicRSILow            = 30.0
	PanicRSIHigh           = 70.0
	ReversalRSILow         = 25.0
	ReversalRSIHigh        = 75.0
	panicBoost             = 1.2
)

// Risk adjustment outside panic.
const (
	lowVolumeRatio    = 0.5
	lowVolumePenalty  = 0.8
	weakTrendADX      = 15.0
	weakTrendPenalty  = 0.85
	extremeATRPenalty = 0.75
)

// Action thresholds.
const (
	MinVolatilityPercent    = 0.5
	directionThreshold      = 3
	strengthThreshold       = 4
	panicDirectionThreshold = 2
	panicStrengthThreshold  = 3
	fallbackDirection       = 4
	fallbackStrength        = 3
)

// Proximity bands around support and resistance.
const (
	nearSupportBand    = 1.005
	nearResistanceBand = 0.995
	obvUpBand          = 1.02
	obvDownBand        = 0.98
)

// Trade plan constants.
const (
	MinAcceptableRR    = 1.5
	MaxRiskPercent     = 1.5
	ReduceSizeBy       = 0.5
	halfKelly          = 0.5
	maxKelly           = 0.15
	maxPositionBuy     = 0.25
	maxPositionSell    = 0.20
	noLossKelly        = 0.10
	trailingActivation = 0.10
	mentalStopPercent  = 0.05
	softStopPercent    = 0.01
	levelOffset        = 0.005
	pullbackPercent    = 0.015
	moonPercent        = 0.20
)
