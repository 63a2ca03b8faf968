package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// UndefinedRatio is how an invalid Ratio is rendered in reports.
const UndefinedRatio = "undefined"

// Ratio is the result of a division that may have had a zero denominator.
// Valid is false when the ratio is undefined.
type Ratio struct {
	Value float64
	Valid bool
}

// Divide returns num/den, or an undefined Ratio when den is zero.
func Divide(num, den float64) Ratio {
	if den == 0 || math.IsNaN(num) || math.IsNaN(den) {
		return Ratio{}
	}
	return Ratio{Value: num / den, Valid: true}
}

// Percent returns 100*num/den, or an undefined Ratio when den is zero.
func Percent(num, den float64) Ratio {
	r := Divide(num, den)
	if r.Valid {
		r.Value *= 100
	}
	return r
}

// DefinedRatio wraps a value that is known to be defined.
func DefinedRatio(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

// Round returns the ratio rounded to the given number of decimal places.
func (r Ratio) Round(places int) Ratio {
	if !r.Valid {
		return r
	}
	return Ratio{Value: Round(r.Value, places), Valid: true}
}

// String formats the ratio with two decimals.
func (r Ratio) String() string {
	if !r.Valid {
		return UndefinedRatio
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes null as an undefined ratio.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Valid: true}
	return nil
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
