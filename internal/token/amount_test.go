package token

import (
	"errors"
	"math"
	"testing"
)

func TestFromFloatRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if _, err := FromFloat(f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %v, got %v", f, err)
		}
	}
}

func TestParseRejectsNegative(t *testing.T) {
	if _, err := Parse("-0.5"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := Parse("abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSubUnderflow(t *testing.T) {
	a := MustFromInt(3)
	b := MustFromInt(5)

	if _, ok := a.Sub(b); ok {
		t.Fatalf("expected underflow when subtracting 5 from 3")
	}

	got, ok := b.Sub(a)
	if !ok {
		t.Fatalf("expected 5-3 to succeed")
	}
	if !got.Equal(MustFromInt(2)) {
		t.Fatalf("expected 2, got %s", got)
	}
}

func TestExchangeRateRoundTrip(t *testing.T) {
	weil := MustFromInt(10)

	inr := WeilToFiat(weil)
	if !inr.Equal(MustFromInt(125_000)) {
		t.Fatalf("expected 125000 INR for 10 WEIL, got %s", inr)
	}

	back := FiatToWeil(inr)
	if !back.Equal(weil) {
		t.Fatalf("round trip mismatch: got %s", back)
	}
}

func TestFiatToWeilFractional(t *testing.T) {
	inr := MustFromInt(1_000_000)
	weil := FiatToWeil(inr)
	if !weil.Equal(MustFromInt(80)) {
		t.Fatalf("expected 80 WEIL for 1000000 INR, got %s", weil)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := MustFromInt(1).Div(Zero()); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
