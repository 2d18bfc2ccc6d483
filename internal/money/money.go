// Package money represents currency amounts as integer minor units.
//
// All ledger arithmetic happens on Cents so repeated additions never drift.
// Decimal values only appear at the API and storage boundary.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrPrecision is returned when a decimal amount has more than two decimal places.
	ErrPrecision = errors.New("amount has more than 2 decimal places")
	// ErrOutOfRange is returned for amounts whose magnitude exceeds MaxAmount.
	ErrOutOfRange = errors.New("amount out of range")
)

// Cents is a signed amount in minor currency units (1/100).
type Cents int64

const (
	// Zero is the zero amount.
	Zero Cents = 0
	// MaxAmount is the largest magnitude accepted at the boundary
	// (100,000,000,000.00). Sums of many such amounts stay far inside int64.
	MaxAmount Cents = 10_000_000_000_000
)

// FromDecimal converts a decimal amount to Cents.
// Amounts with sub-cent precision are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrPrecision, d.String())
	}
	if shifted.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return Cents(shifted.IntPart()), nil
}

// Parse converts a decimal string such as "12.50" to Cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount as a decimal with two places of precision.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Abs returns the magnitude of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with exactly two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
