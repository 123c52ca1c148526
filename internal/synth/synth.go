// Package synth generates deterministic candle series for offline runs and tests.
package synth

import (
	"math"
	"math/rand"
	"time"

	"CryptoSentinel/internal/model"
)

// Epoch is the timestamp of the first generated candle.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Interval is the spacing between generated candles.
const Interval = time.Hour

// At returns the timestamp of candle i.
func At(i int) time.Time {
	return Epoch.Add(time.Duration(i) * Interval)
}

// Flat returns n identical candles with open = high = low = close = price.
func Flat(n int, price, volume float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		out[i] = model.Candle{Time: At(i), Open: price, High: price, Low: price, Close: price, Volume: volume}
	}
	return out
}

// Linear returns n candles whose close rises by step each candle, with
// high/low spread symmetrically around the close.
func Linear(n int, start, step, spread, volume float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := start + step*float64(i)
		open := c
		if i > 0 {
			open = out[i-1].Close
		}
		out[i] = model.Candle{Time: At(i), Open: open, High: c + spread, Low: c - spread, Close: c, Volume: volume}
	}
	return out
}

// Geometric returns n candles whose close compounds by growth per candle.
func Geometric(n int, start, growth, volume float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := start * math.Pow(growth, float64(i))
		open := c
		if i > 0 {
			open = out[i-1].Close
		}
		out[i] = model.Candle{Time: At(i), Open: open, High: c, Low: open, Close: c, Volume: volume}
	}
	return out
}

// RandomWalk returns n candles following a seeded multiplicative walk with
// per-candle moves of up to ±maxMove (as a fraction).
func RandomWalk(n int, start, maxMove float64, seed int64) []model.Candle {
	rng := rand.New(rand.NewSource(seed))
	out := make([]model.Candle, n)
	price := start
	for i := range out {
		open := price
		price *= 1 + (rng.Float64()*2-1)*maxMove
		high := math.Max(open, price) * (1 + rng.Float64()*maxMove/2)
		low := math.Min(open, price) * (1 - rng.Float64()*maxMove/2)
		out[i] = model.Candle{
			Time:   At(i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 500 + rng.Float64()*1000,
		}
	}
	return out
}

// Retime re-stamps candles so that the last one closes at end.
func Retime(candles []model.Candle, end time.Time, interval time.Duration) []model.Candle {
	out := make([]model.Candle, len(candles))
	for i, c := range candles {
		c.Time = end.Add(-time.Duration(len(candles)-1-i) * interval)
		out[i] = c
	}
	return out
}
