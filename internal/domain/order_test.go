package domain

import "testing"

func TestOrder_Finalized(t *testing.T) {
	tests := []struct {
		name      string
		cancelled bool
		filled    bool
		want      bool
	}{
		{"open", false, false, false},
		{"cancelled", true, false, true},
		{"filled", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Cancelled: tt.cancelled, Filled: tt.filled}
			if got := o.Finalized(); got != tt.want {
				t.Errorf("Finalized() = %v, want %v", got, tt.want)
			}
		})
	}
}
