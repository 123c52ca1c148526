package model

import "time"

// Candle represents a single OHLCV bar for one sampling interval.
type Candle struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CandleSeries holds raw candles for analysis.
type CandleSeries struct {
	Symbol    string
	Interval  string
	Candles   []Candle
	FetchedAt time.Time
}

// Closes extracts the close prices of the given candles.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
