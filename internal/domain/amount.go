package domain

import "math"

// Amounts are non-negative int64 values in the asset's smallest indivisible
// unit. All scaling from human-readable quantities happens before a value
// enters the core. The helpers below make overflow explicit instead of
// letting it wrap.

// CheckedAdd returns a+b for non-negative a and b, or ErrOverflow when the
// sum exceeds the int64 range.
func CheckedAdd(a, b int64) (int64, error) {
	if a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// CheckedMul returns a*b for non-negative a and b, or ErrOverflow when the
// product exceeds the int64 range.
func CheckedMul(a, b int64) (int64, error) {
	if b == 0 {
		return 0, nil
	}
	if a > math.MaxInt64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}
