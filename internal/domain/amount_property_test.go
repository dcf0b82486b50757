package domain

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_CheckedAddNeverWraps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, math.MaxInt64).Draw(t, "a")
		b := rapid.Int64Range(0, math.MaxInt64).Draw(t, "b")

		got, err := CheckedAdd(a, b)
		if err != nil {
			// Overflow must be reported exactly when the true sum does not fit.
			if a <= math.MaxInt64-b {
				t.Fatalf("CheckedAdd(%d, %d) reported overflow for representable sum", a, b)
			}
			return
		}
		if got < a || got < b {
			t.Fatalf("CheckedAdd(%d, %d) = %d wrapped", a, b, got)
		}
		if got != a+b {
			t.Fatalf("CheckedAdd(%d, %d) = %d, want %d", a, b, got, a+b)
		}
	})
}

func TestProperty_CheckedMulAgreesWithBigMul(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, math.MaxInt64).Draw(t, "a")
		b := rapid.Int64Range(0, 100).Draw(t, "b")

		got, err := CheckedMul(a, b)
		overflows := b != 0 && a > math.MaxInt64/b
		if overflows {
			if err == nil {
				t.Fatalf("CheckedMul(%d, %d) = %d, expected overflow", a, b, got)
			}
			return
		}
		if err != nil {
			t.Fatalf("CheckedMul(%d, %d) unexpected error: %v", a, b, err)
		}
		if got != a*b {
			t.Fatalf("CheckedMul(%d, %d) = %d, want %d", a, b, got, a*b)
		}
	})
}
