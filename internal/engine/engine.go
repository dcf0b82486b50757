package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/store"
)

// AssetTransferService moves value across the custody boundary. Both calls
// are synchronous and fallible; the engine holds its serialization point
// across them, so an in-flight deposit or withdrawal is never partially
// visible to other operations.
type AssetTransferService interface {
	// TransferIn moves amount of asset from the account's external custody
	// into the system's custody. Called only for token deposits.
	TransferIn(ctx context.Context, asset domain.Asset, from string, amount int64) error

	// TransferOut moves amount of asset from system custody to the account,
	// after the corresponding ledger debit has already succeeded.
	TransferOut(ctx context.Context, asset domain.Asset, to string, amount int64) error
}

// Engine implements the settlement core: deposits and withdrawals against
// the ledger, and make/cancel/fill against the order book with fee routing.
//
// Every public operation runs behind a single mutex, so each call is one
// atomic unit of work: either every ledger and order mutation it implies is
// applied, or none is.
type Engine struct {
	mu        sync.Mutex
	ledger    *store.Ledger
	book      *store.OrderBook
	transfers AssetTransferService
	fees      domain.FeePolicy
	now       func() time.Time
}

// New creates an Engine over the given ledger and order book. The fee
// policy is fixed for the engine's lifetime.
func New(ledger *store.Ledger, book *store.OrderBook, transfers AssetTransferService, fees domain.FeePolicy) *Engine {
	return &Engine{
		ledger:    ledger,
		book:      book,
		transfers: transfers,
		fees:      fees,
		now:       time.Now,
	}
}

// DepositNative credits the native balance of account by amount. The host
// environment has already moved the value into custody by the time this is
// called, so no transfer-in is issued for the native path.
func (e *Engine) DepositNative(account string, amount int64) (domain.DepositEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	balance, err := e.ledger.Credit(domain.Native(), account, amount)
	if err != nil {
		return domain.DepositEvent{}, err
	}
	return domain.DepositEvent{
		Asset:   domain.Native(),
		Account: account,
		Amount:  amount,
		Balance: balance,
		At:      e.now(),
	}, nil
}

// DepositToken moves amount of a token asset into custody via the transfer
// service and credits it to account. The native asset is rejected with
// ErrInvalidAsset: token custody requires an external transfer-in step that
// the native path does not have. A failed transfer-in leaves the ledger
// untouched.
func (e *Engine) DepositToken(ctx context.Context, asset domain.Asset, account string, amount int64) (domain.DepositEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if asset.IsNative() {
		return domain.DepositEvent{}, domain.ErrInvalidAsset
	}
	if err := e.transfers.TransferIn(ctx, asset, account, amount); err != nil {
		return domain.DepositEvent{}, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	balance, err := e.ledger.Credit(asset, account, amount)
	if err != nil {
		return domain.DepositEvent{}, err
	}
	return domain.DepositEvent{
		Asset:   asset,
		Account: account,
		Amount:  amount,
		Balance: balance,
		At:      e.now(),
	}, nil
}

// WithdrawNative debits account's native balance and then transfers the
// value out of custody.
func (e *Engine) WithdrawNative(ctx context.Context, account string, amount int64) (domain.WithdrawEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.withdraw(ctx, domain.Native(), account, amount)
}

// WithdrawToken debits account's balance in a token asset and then
// transfers the value out of custody. The native asset is rejected with
// ErrInvalidAsset.
func (e *Engine) WithdrawToken(ctx context.Context, asset domain.Asset, account string, amount int64) (domain.WithdrawEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if asset.IsNative() {
		return domain.WithdrawEvent{}, domain.ErrInvalidAsset
	}
	return e.withdraw(ctx, asset, account, amount)
}

// withdraw debits first, so an insufficient balance fails before any
// external call is made. A transfer-out failure after the debit has no
// compensation path: the error is surfaced as an unrecoverable
// inconsistency and the debit stands.
func (e *Engine) withdraw(ctx context.Context, asset domain.Asset, account string, amount int64) (domain.WithdrawEvent, error) {
	balance, err := e.ledger.Debit(asset, account, amount)
	if err != nil {
		return domain.WithdrawEvent{}, err
	}
	if err := e.transfers.TransferOut(ctx, asset, account, amount); err != nil {
		return domain.WithdrawEvent{}, fmt.Errorf("transfer out after ledger debit, custody inconsistent: %w: %v", domain.ErrTransferFailed, err)
	}
	return domain.WithdrawEvent{
		Asset:   asset,
		Account: account,
		Amount:  amount,
		Balance: balance,
		At:      e.now(),
	}, nil
}

// MakeOrder records a standing intent by creator to swap amountOffered of
// assetOffered for amountWanted of assetWanted. Nothing is checked or
// escrowed against the creator's balance here; sufficiency is validated at
// fill time against the creator's balance then.
func (e *Engine) MakeOrder(creator string, assetWanted domain.Asset, amountWanted int64, assetOffered domain.Asset, amountOffered int64) (domain.OrderEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amountWanted < 0 || amountOffered < 0 {
		return domain.OrderEvent{}, &domain.ValidationError{Message: "order amounts must be >= 0"}
	}

	order := &domain.Order{
		ID:            e.book.NextID(),
		Creator:       creator,
		AssetWanted:   assetWanted,
		AmountWanted:  amountWanted,
		AssetOffered:  assetOffered,
		AmountOffered: amountOffered,
		CreatedAt:     e.now(),
	}
	if err := e.book.Insert(order); err != nil {
		return domain.OrderEvent{}, err
	}
	return domain.OrderEvent{
		ID:            order.ID,
		Creator:       order.Creator,
		AssetWanted:   order.AssetWanted,
		AmountWanted:  order.AmountWanted,
		AssetOffered:  order.AssetOffered,
		AmountOffered: order.AmountOffered,
		At:            order.CreatedAt,
	}, nil
}

// CancelOrder cancels the order with the given id. Only the creator may
// cancel, and only while the order is neither cancelled nor filled.
func (e *Engine) CancelOrder(caller string, id uint64) (domain.CancelEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := e.book.Get(id)
	if err != nil {
		return domain.CancelEvent{}, err
	}
	if caller != order.Creator {
		return domain.CancelEvent{}, domain.ErrUnauthorized
	}
	if order.Finalized() {
		return domain.CancelEvent{}, domain.ErrAlreadyFinalized
	}

	e.book.MarkCancelled(id)
	return domain.CancelEvent{
		ID:            order.ID,
		Creator:       order.Creator,
		AssetWanted:   order.AssetWanted,
		AmountWanted:  order.AmountWanted,
		AssetOffered:  order.AssetOffered,
		AmountOffered: order.AmountOffered,
		At:            e.now(),
	}, nil
}

// posting is one applied ledger mutation, recorded so a failed fill can be
// reverted in reverse order.
type posting struct {
	asset   domain.Asset
	account string
	amount  int64
	debit   bool
}

// FillOrder executes the order with the given id against filler as one
// atomic swap. The filler pays amountWanted plus the fee in assetWanted;
// the creator pays amountOffered in assetOffered; the fee goes whole to
// the fee account. There is no partial fill: either every posting lands or
// the ledger is left exactly as it was.
func (e *Engine) FillOrder(filler string, id uint64) (domain.TradeEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := e.book.Get(id)
	if err != nil {
		return domain.TradeEvent{}, err
	}
	if order.Finalized() {
		return domain.TradeEvent{}, domain.ErrAlreadyFinalized
	}

	fee, err := e.fees.Fee(order.AmountWanted)
	if err != nil {
		return domain.TradeEvent{}, err
	}
	cost, err := domain.CheckedAdd(order.AmountWanted, fee)
	if err != nil {
		return domain.TradeEvent{}, err
	}

	var applied []posting
	fail := func(err error) (domain.TradeEvent, error) {
		e.revert(applied)
		return domain.TradeEvent{}, err
	}

	// Filler pays the wanted amount plus the fee.
	if _, err := e.ledger.Debit(order.AssetWanted, filler, cost); err != nil {
		return fail(err)
	}
	applied = append(applied, posting{order.AssetWanted, filler, cost, true})

	// Creator pays the offered amount out of their live balance.
	if _, err := e.ledger.Debit(order.AssetOffered, order.Creator, order.AmountOffered); err != nil {
		return fail(err)
	}
	applied = append(applied, posting{order.AssetOffered, order.Creator, order.AmountOffered, true})

	if _, err := e.ledger.Credit(order.AssetWanted, order.Creator, order.AmountWanted); err != nil {
		return fail(err)
	}
	applied = append(applied, posting{order.AssetWanted, order.Creator, order.AmountWanted, false})

	if _, err := e.ledger.Credit(order.AssetOffered, filler, order.AmountOffered); err != nil {
		return fail(err)
	}
	applied = append(applied, posting{order.AssetOffered, filler, order.AmountOffered, false})

	if _, err := e.ledger.Credit(order.AssetWanted, e.fees.Account, fee); err != nil {
		return fail(err)
	}

	e.book.MarkFilled(id)
	return domain.TradeEvent{
		ID:            order.ID,
		Creator:       order.Creator,
		AssetWanted:   order.AssetWanted,
		AmountWanted:  order.AmountWanted,
		AssetOffered:  order.AssetOffered,
		AmountOffered: order.AmountOffered,
		Filler:        filler,
		Fee:           fee,
		At:            e.now(),
	}, nil
}

// revert undoes applied postings in reverse order. Each revert returns a
// balance to a value it already held during this operation, so a failure
// here means the ledger itself broke an invariant.
func (e *Engine) revert(applied []posting) {
	for i := len(applied) - 1; i >= 0; i-- {
		p := applied[i]
		var err error
		if p.debit {
			_, err = e.ledger.Credit(p.asset, p.account, p.amount)
		} else {
			_, err = e.ledger.Debit(p.asset, p.account, p.amount)
		}
		if err != nil {
			panic(fmt.Sprintf("minidex: ledger revert failed: %v", err))
		}
	}
}

// BalanceOf returns the balance for (asset, account); 0 for unknown keys.
func (e *Engine) BalanceOf(asset domain.Asset, account string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.BalanceOf(asset, account)
}

// OrderCount returns the number of orders ever created.
func (e *Engine) OrderCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.Count()
}

// GetOrder returns a snapshot of the order with the given id.
func (e *Engine) GetOrder(id uint64) (domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.Get(id)
}

// IsFilled reports whether the order exists and has been filled.
func (e *Engine) IsFilled(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.IsFilled(id)
}

// IsCancelled reports whether the order exists and has been cancelled.
func (e *Engine) IsCancelled(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.IsCancelled(id)
}

// ListOrders returns up to limit order snapshots with id > afterID, in
// creation order, plus the total order count.
func (e *Engine) ListOrders(afterID uint64, limit int) ([]domain.Order, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.ListRange(afterID, limit), e.book.Count()
}

// ListOrdersByCreator returns a creator's orders, newest first, paginated.
func (e *Engine) ListOrdersByCreator(creator string, page, limit int) ([]domain.Order, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.ListByCreator(creator, page, limit)
}
