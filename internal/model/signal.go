package model

import "time"

// Action is the trading decision of a signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Actionable reports whether the action opens a position.
func (a Action) Actionable() bool {
	return a == ActionBuy || a == ActionSell
}

// OBVTrend is the direction of on-balance volume relative to its own mean.
type OBVTrend string

const (
	OBVUp   OBVTrend = "up"
	OBVDown OBVTrend = "down"
	OBVFlat OBVTrend = "flat"
)

// ComponentScores are the four 0-100 category scores.
type ComponentScores struct {
	Trend     float64 `json:"trend"`
	Momentum  float64 `json:"momentum"`
	Volume    float64 `json:"volume"`
	Technical float64 `json:"technical"`
}

// Signal is the output of the scorer. TradePlan is non-nil iff Action is BUY or SELL.
type Signal struct {
	Action         Action          `json:"action"`
	Strength       int             `json:"strength"`
	Score          float64         `json:"score"`
	RawScore       float64         `json:"raw_score"`
	DirectionScore int             `json:"direction_score"`
	Components     ComponentScores `json:"component_scores"`

	NearSupport    bool     `json:"near_support"`
	NearResistance bool     `json:"near_resistance"`
	Bouncing       bool     `json:"bouncing"`
	OBVTrend       OBVTrend `json:"obv_trend"`
	ATRPercent     float64  `json:"atr_percent"`
	Panic          bool     `json:"panic"`
	PanicReversal  bool     `json:"panic_reversal"`

	Price      float64        `json:"price"`
	Time       time.Time      `json:"timestamp"`
	Indicators IndicatorPoint `json:"indicators"`
	TradePlan  *TradePlan     `json:"trade_plan"`
}
