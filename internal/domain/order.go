package domain

import "time"

// Order is a standing intent to swap AmountOffered of AssetOffered for
// AmountWanted of AssetWanted. Nothing is locked at creation time; the
// creator's offered balance is validated against their live balance when
// the order is filled.
//
// An order is immutable after creation except for its two terminal flags,
// of which at most one may ever become true. Orders are never deleted.
type Order struct {
	ID            uint64
	Creator       string
	AssetWanted   Asset
	AmountWanted  int64
	AssetOffered  Asset
	AmountOffered int64
	CreatedAt     time.Time
	Cancelled     bool
	Filled        bool
}

// Finalized reports whether the order has reached a terminal state.
func (o *Order) Finalized() bool {
	return o.Cancelled || o.Filled
}
