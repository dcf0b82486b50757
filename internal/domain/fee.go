package domain

// FeePolicy routes a percentage fee on every fill to a distinguished
// account. Both the rate and the account are fixed at construction and
// never change afterwards.
//
// The fee is always denominated in the asset the filler pays into the
// trade (the order's wanted asset), charged on top of the wanted amount,
// and routed whole to the fee account.
type FeePolicy struct {
	Account string
	Percent int64 // 0–100
}

// Fee computes floor(amount × Percent / 100) with truncating integer
// division. The truncation is observable in settlement amounts and must
// not be replaced by rounding.
func (p FeePolicy) Fee(amount int64) (int64, error) {
	scaled, err := CheckedMul(amount, p.Percent)
	if err != nil {
		return 0, err
	}
	return scaled / 100, nil
}
