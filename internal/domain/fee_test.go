package domain

import (
	"errors"
	"math"
	"testing"
)

func TestFeePolicy_Fee(t *testing.T) {
	tests := []struct {
		name    string
		percent int64
		amount  int64
		want    int64
	}{
		{"ten percent", 10, 100, 10},
		{"truncates toward zero", 10, 99, 9},
		{"truncates small amounts to zero", 10, 9, 0},
		{"zero rate", 0, 1_000_000, 0},
		{"full rate", 100, 12345, 12345},
		{"zero amount", 10, 0, 0},
		{"one percent of one", 1, 1, 0},
		{"large amount", 10, 1_000_000_000_000, 100_000_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FeePolicy{Account: "treasury", Percent: tt.percent}
			got, err := p.Fee(tt.amount)
			if err != nil {
				t.Fatalf("Fee(%d) unexpected error: %v", tt.amount, err)
			}
			if got != tt.want {
				t.Errorf("Fee(%d) at %d%% = %d, want %d", tt.amount, tt.percent, got, tt.want)
			}
		})
	}
}

func TestFeePolicy_Fee_Overflow(t *testing.T) {
	p := FeePolicy{Account: "treasury", Percent: 10}
	if _, err := p.Fee(math.MaxInt64); !errors.Is(err, ErrOverflow) {
		t.Errorf("Fee(MaxInt64) error = %v, want ErrOverflow", err)
	}
}
