package token

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates an amount that is negative, NaN or infinite and
// therefore not representable as a token or fiat value.
var ErrInvalidAmount = errors.New("invalid amount")

// WeilToINR is the fixed testnet exchange rate: 1 WEIL = 12500 INR.
// Conversions use it bidirectionally.
var WeilToINR = decimal.NewFromInt(12500)

// Amount is a non-negative monetary value, used for both WEIL token and INR
// fiat quantities. The zero value is a valid zero amount.
type Amount struct {
	value decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{}
}

// Parse builds an Amount from its decimal string representation.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("%w: negative value %s", ErrInvalidAmount, s)
	}
	return Amount{value: d}, nil
}

// FromFloat builds an Amount from a float64, rejecting NaN, infinities and
// negative values.
func FromFloat(f float64) (Amount, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{}, fmt.Errorf("%w: non-finite value", ErrInvalidAmount)
	}
	if f < 0 {
		return Amount{}, fmt.Errorf("%w: negative value %v", ErrInvalidAmount, f)
	}
	return Amount{value: decimal.NewFromFloat(f)}, nil
}

// FromInt builds an Amount from a non-negative integer.
func FromInt(n int64) (Amount, error) {
	if n < 0 {
		return Amount{}, fmt.Errorf("%w: negative value %d", ErrInvalidAmount, n)
	}
	return Amount{value: decimal.NewFromInt(n)}, nil
}

// MustFromInt is a convenience constructor for constants and tests.
func MustFromInt(n int64) Amount {
	a, err := FromInt(n)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b and reports whether the subtraction stayed non-negative.
// On underflow the receiver is returned unchanged.
func (a Amount) Sub(b Amount) (Amount, bool) {
	if a.value.LessThan(b.value) {
		return a, false
	}
	return Amount{value: a.value.Sub(b.value)}, true
}

// Div returns a / b. Division by zero returns ErrInvalidAmount.
func (a Amount) Div(b Amount) (Amount, error) {
	if b.value.IsZero() {
		return Amount{}, fmt.Errorf("%w: division by zero", ErrInvalidAmount)
	}
	return Amount{value: a.value.Div(b.value)}, nil
}

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount {
	return Amount{value: a.value.Mul(b.value)}
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool {
	return a.value.GreaterThan(b.value)
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Float64 returns the closest float64 representation.
func (a Amount) Float64() float64 {
	f, _ := a.value.Float64()
	return f
}

// String renders the amount in plain decimal notation.
func (a Amount) String() string {
	return a.value.String()
}

// WeilToFiat converts a WEIL token amount to INR at the fixed rate.
func WeilToFiat(weil Amount) Amount {
	return Amount{value: weil.value.Mul(WeilToINR)}
}

// FiatToWeil converts an INR amount to WEIL tokens at the fixed rate.
func FiatToWeil(inr Amount) Amount {
	return Amount{value: inr.value.Div(WeilToINR)}
}
