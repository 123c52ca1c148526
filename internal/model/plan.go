package model

// Regime classifies current market behavior.
type Regime string

const (
	RegimeRanging        Regime = "ranging"
	RegimeTrendingWeak   Regime = "trending_weak"
	RegimeTrendingStrong Regime = "trending_strong"
)

// Volatility classifies ATR as a share of price.
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

type Entries struct {
	Aggressive   float64 `json:"aggressive"`
	Conservative float64 `json:"conservative"`
	Ideal        float64 `json:"ideal"`
	LimitOrder   float64 `json:"limit_order"`
}

type Stops struct {
	HardStop     float64 `json:"hard_stop"`
	SoftStop     float64 `json:"soft_stop"`
	TrailingStop float64 `json:"trailing_stop"`
	MentalStop   float64 `json:"mental_stop"`
}

type Targets struct {
	T1   float64 `json:"T1"`
	T2   float64 `json:"T2"`
	T3   float64 `json:"T3"`
	Moon float64 `json:"moon"`
}

type RiskReward struct {
	T1 float64 `json:"T1"`
	T2 float64 `json:"T2"`
	T3 float64 `json:"T3"`
}

// ATRMultipliers are the regime-dependent stop and target distances in ATR units.
type ATRMultipliers struct {
	Stop    float64    `json:"stop"`
	Targets [3]float64 `json:"targets"`
}

type PositionSizing struct {
	KellyFraction  float64 `json:"kelly_fraction"`
	Conservative   float64 `json:"conservative"`
	Aggressive     float64 `json:"aggressive"`
	Recommended    float64 `json:"recommended"`
	MaxRiskPercent float64 `json:"max_risk_percent"`
	KellySource    string  `json:"kelly_source"`
}

type Pyramiding struct {
	Enabled      bool      `json:"enabled"`
	AddOnLevels  []float64 `json:"add_on_levels"`
	ReduceSizeBy float64   `json:"reduce_size_by"`
}

// HoldingPeriod is measured in candles of the configured interval.
type HoldingPeriod struct {
	MinDays      int    `json:"min_days"`
	ExpectedDays int    `json:"expected_days"`
	MaxDays      int    `json:"max_days"`
	RegimeFactor Regime `json:"regime_factor"`
}

// ExitAction is one row of the exit-strategy table.
type ExitAction string

const (
	ExitSellThird      ExitAction = "SELL_33%"
	ExitSellRemaining  ExitAction = "SELL_REMAINING_OR_TRAIL"
	ExitSellAllMarket  ExitAction = "SELL_ALL_MARKET"
	ExitSellAll        ExitAction = "SELL_ALL"
	ExitCoverThird     ExitAction = "COVER_33%"
	ExitCoverRemaining ExitAction = "COVER_REMAINING_OR_TRAIL"
	ExitCoverAllMarket ExitAction = "COVER_ALL_MARKET"
	ExitCoverAll       ExitAction = "COVER_ALL"
)

type ExitStrategy struct {
	T1Action       ExitAction `json:"T1_action"`
	T2Action       ExitAction `json:"T2_action"`
	T3Action       ExitAction `json:"T3_action"`
	StopHit        ExitAction `json:"stop_hit"`
	SignalReversal ExitAction `json:"signal_reversal"`
	TimeStopBars   int        `json:"time_stop"`
}

// RiskWarning is a non-fatal caution attached to a plan.
type RiskWarning string

const (
	WarnLowRiskReward  RiskWarning = "risk/reward at T1 below 1.5"
	WarnHighVolatility RiskWarning = "high volatility, stop widened"
	WarnRanging        RiskWarning = "ranging market, targets reduced"
	WarnLowVolume      RiskWarning = "volume below half of average, liquidity risk"
	WarnRSIOverbought  RiskWarning = "RSI above 75 against a long entry"
	WarnRSIOversold    RiskWarning = "RSI below 25 against a short entry"
)

// TradePlan is the risk-managed blueprint for an actionable signal.
type TradePlan struct {
	Action         Action         `json:"action"`
	MarketRegime   Regime         `json:"market_regime"`
	Volatility     Volatility     `json:"volatility"`
	ATRPercent     float64        `json:"atr_percent"`
	ATRMultipliers ATRMultipliers `json:"atr_multipliers"`

	Entries    Entries    `json:"entries"`
	Stops      Stops      `json:"stops"`
	Targets    Targets    `json:"targets"`
	RiskReward RiskReward `json:"risk_reward_ratios"`

	MinAcceptableRR float64 `json:"min_acceptable_rr"`
	ActualBestRR    float64 `json:"actual_best_rr"`

	PositionSizing PositionSizing `json:"position_sizing"`
	Pyramiding     Pyramiding     `json:"pyramiding"`
	HoldingPeriod  HoldingPeriod  `json:"holding_period"`
	TimeStop       bool           `json:"time_stop_enabled"`
	ExitStrategy   ExitStrategy   `json:"exit_strategy"`
	RiskWarnings   []RiskWarning  `json:"risk_warnings"`

	EstimatedWinRate float64 `json:"estimated_win_rate"`
	ExpectedReturn   float64 `json:"expected_return"`
}
