// Package money provides currency-exact amounts in integer minor units.
// All monetary accumulation in the pipeline goes through this package;
// float64 appears only at the display boundary.
package money

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Amount is a monetary value in minor units (cents).
type Amount int64

var ctx = apd.BaseContext.WithPrecision(34)

// Parse converts a decimal string ("3.50") to cents, rounding half-up at
// the second decimal place.
func Parse(s string) (Amount, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return fromDecimal(&d)
}

// FromFloat converts a float amount to cents, rounding half-up. Used at
// the boundary where cleaned records carry float fields.
func FromFloat(v float64) Amount {
	var d apd.Decimal
	if _, err := d.SetFloat64(v); err != nil {
		return 0
	}
	a, err := fromDecimal(&d)
	if err != nil {
		return 0
	}
	return a
}

func fromDecimal(d *apd.Decimal) (Amount, error) {
	var cents apd.Decimal
	if _, err := ctx.Mul(&cents, d, apd.New(100, 0)); err != nil {
		return 0, fmt.Errorf("scale to cents: %w", err)
	}
	rctx := *ctx
	rctx.Rounding = apd.RoundHalfUp
	var rounded apd.Decimal
	if _, err := rctx.RoundToIntegralValue(&rounded, &cents); err != nil {
		return 0, fmt.Errorf("round cents: %w", err)
	}
	i, err := rounded.Int64()
	if err != nil {
		return 0, fmt.Errorf("cents out of range: %w", err)
	}
	return Amount(i), nil
}

// MulInt returns a * n. Quantity times unit price stays exact in cents.
func (a Amount) MulInt(n int64) Amount {
	return Amount(int64(a) * n)
}

// Float64 returns the amount in major units as a display value.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// String formats the amount with two decimals, the fixed formatting used
// for all monetary output columns.
func (a Amount) String() string {
	return fmt.Sprintf("%.2f", a.Float64())
}

// Cents returns the raw minor-unit value for warehouse fact columns.
func (a Amount) Cents() int64 {
	return int64(a)
}
