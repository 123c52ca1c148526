package model

import (
	"encoding/json"
	"math"
)

// Value is an indicator reading that may be undefined, either because the
// indicator's window is not yet filled or because its arithmetic degenerated
// (for example a zero denominator).
type Value struct {
	v  float64
	ok bool
}

// Undefined is the zero Value.
var Undefined = Value{}

// Defined wraps v. NaN and infinities collapse to Undefined.
func Defined(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Value{v: v, ok: true}
}

// Valid reports whether the value is defined.
func (x Value) Valid() bool { return x.ok }

// Get returns the value and whether it is defined.
func (x Value) Get() (float64, bool) { return x.v, x.ok }

// Or returns the value, or def when undefined.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// Positive returns the value when it is defined and > 0.
func (x Value) Positive() (float64, bool) {
	if !x.ok || x.v <= 0 {
		return 0, false
	}
	return x.v, true
}

func (x Value) MarshalJSON() ([]byte, error) {
	if !x.ok {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

func (x *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*x = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*x = Defined(f)
	return nil
}
