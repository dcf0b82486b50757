package store

import (
	"sync"

	"github.com/efreitasn/minidex/internal/domain"
)

// balanceKey identifies a single ledger entry.
type balanceKey struct {
	asset   domain.Asset
	account string
}

// Ledger is the authoritative balance store per (asset, account). Entries
// are created implicitly on first credit and persist indefinitely; a zero
// balance is a valid steady state, not deletion.
//
// Balances are int64 amounts in the asset's smallest unit and never go
// negative. The only mutation paths are Credit and Debit.
type Ledger struct {
	mu       sync.RWMutex
	balances map[balanceKey]int64
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[balanceKey]int64),
	}
}

// BalanceOf returns the balance for (asset, account). Unknown keys read as
// 0; the query never fails.
func (l *Ledger) BalanceOf(asset domain.Asset, account string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[balanceKey{asset: asset, account: account}]
}

// Credit increases the balance at (asset, account) by amount and returns
// the new balance. amount must be ≥ 0. A credit that would exceed the
// representable range fails with domain.ErrOverflow and leaves the entry
// unchanged; it must not silently wrap.
func (l *Ledger) Credit(asset domain.Asset, account string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, &domain.ValidationError{Message: "credit amount must be >= 0"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{asset: asset, account: account}
	balance, err := domain.CheckedAdd(l.balances[key], amount)
	if err != nil {
		return 0, err
	}
	l.balances[key] = balance
	return balance, nil
}

// Debit decreases the balance at (asset, account) by amount and returns
// the new balance. It fails with domain.ErrInsufficientBalance if amount
// exceeds the current balance, leaving the entry unchanged.
func (l *Ledger) Debit(asset domain.Asset, account string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, &domain.ValidationError{Message: "debit amount must be >= 0"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{asset: asset, account: account}
	balance := l.balances[key]
	if amount > balance {
		return 0, domain.ErrInsufficientBalance
	}
	l.balances[key] = balance - amount
	return balance - amount, nil
}
