package strategy

import (
	"math"

	"github.com/shopspring/decimal"
)

const maxPricePlaces = 12

// round rounds half away from zero to the given number of decimal places.
func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// pricePlaces returns the decimal places used for price levels around price.
// Prices keep five significant digits, never fewer than two places, and a
// positive step is resolved to a tenth so levels a step apart stay distinct.
func pricePlaces(price, step float64) int32 {
	places := 2
	if price > 0 {
		places = max(places, 4-int(math.Floor(math.Log10(price))))
	}
	if step > 0 {
		places = max(places, 1-int(math.Floor(math.Log10(step))))
	}
	return int32(min(places, maxPricePlaces))
}

// priceRounder rounds levels to the places pricePlaces picks for price.
func priceRounder(price, step float64) func(float64) float64 {
	places := pricePlaces(price, step)
	return func(x float64) float64 { return round(x, places) }
}
