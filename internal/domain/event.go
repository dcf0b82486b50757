package domain

import "time"

// Event kinds. The same names are used for webhook subscriptions and for
// journal envelopes.
const (
	EventDeposit        = "deposit"
	EventWithdraw       = "withdraw"
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
	EventOrderFilled    = "order.filled"
)

// Event is the externally observable record of a single state change.
// Every mutating engine operation returns exactly one event; observers can
// reconstruct ledger and order state from the event stream without
// re-querying.
type Event interface {
	EventKind() string
}

// DepositEvent records a credit at the custody boundary.
type DepositEvent struct {
	Asset   Asset     `json:"asset"`
	Account string    `json:"account"`
	Amount  int64     `json:"amount"`
	Balance int64     `json:"balance"` // resulting balance
	At      time.Time `json:"at"`
}

func (DepositEvent) EventKind() string { return EventDeposit }

// WithdrawEvent records a debit at the custody boundary.
type WithdrawEvent struct {
	Asset   Asset     `json:"asset"`
	Account string    `json:"account"`
	Amount  int64     `json:"amount"`
	Balance int64     `json:"balance"` // resulting balance
	At      time.Time `json:"at"`
}

func (WithdrawEvent) EventKind() string { return EventWithdraw }

// OrderEvent records a newly placed order.
type OrderEvent struct {
	ID            uint64    `json:"id"`
	Creator       string    `json:"creator"`
	AssetWanted   Asset     `json:"asset_wanted"`
	AmountWanted  int64     `json:"amount_wanted"`
	AssetOffered  Asset     `json:"asset_offered"`
	AmountOffered int64     `json:"amount_offered"`
	At            time.Time `json:"at"`
}

func (OrderEvent) EventKind() string { return EventOrderPlaced }

// CancelEvent records a cancelled order.
type CancelEvent struct {
	ID            uint64    `json:"id"`
	Creator       string    `json:"creator"`
	AssetWanted   Asset     `json:"asset_wanted"`
	AmountWanted  int64     `json:"amount_wanted"`
	AssetOffered  Asset     `json:"asset_offered"`
	AmountOffered int64     `json:"amount_offered"`
	At            time.Time `json:"at"`
}

func (CancelEvent) EventKind() string { return EventOrderCancelled }

// TradeEvent records a filled order. Fee is the amount routed to the fee
// account, denominated in AssetWanted and paid by Filler on top of
// AmountWanted.
type TradeEvent struct {
	ID            uint64    `json:"id"`
	Creator       string    `json:"creator"`
	AssetWanted   Asset     `json:"asset_wanted"`
	AmountWanted  int64     `json:"amount_wanted"`
	AssetOffered  Asset     `json:"asset_offered"`
	AmountOffered int64     `json:"amount_offered"`
	Filler        string    `json:"filler"`
	Fee           int64     `json:"fee"`
	At            time.Time `json:"at"`
}

func (TradeEvent) EventKind() string { return EventOrderFilled }
