package service

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/engine"
	"github.com/efreitasn/minidex/internal/journal"
)

var accountRegex = regexp.MustCompile(`^[a-zA-Z0-9:_-]{1,64}$`)

// MakeOrderRequest represents the input for order creation.
type MakeOrderRequest struct {
	Creator       string
	AssetWanted   domain.Asset
	AmountWanted  int64
	AssetOffered  domain.Asset
	AmountOffered int64
}

// ExchangeService validates requests, drives the settlement engine, and
// fans the resulting events out to the journal and webhook subscribers.
// The engine itself stays free of observers; everything after the state
// change happens here.
type ExchangeService struct {
	engine   *engine.Engine
	webhooks *WebhookService  // nil disables webhook dispatch
	journal  *journal.Journal // nil disables journaling
	logger   *slog.Logger
}

// NewExchangeService creates an ExchangeService. webhooks and jour may be
// nil to disable the respective observer.
func NewExchangeService(eng *engine.Engine, webhooks *WebhookService, jour *journal.Journal, logger *slog.Logger) *ExchangeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExchangeService{
		engine:   eng,
		webhooks: webhooks,
		journal:  jour,
		logger:   logger,
	}
}

// publish records the event in the journal and dispatches webhooks to the
// given accounts. The state change has already committed, so observer
// failures are logged, never propagated.
func (s *ExchangeService) publish(ev domain.Event, accounts ...string) {
	if s.journal != nil {
		if _, err := s.journal.Append(ev); err != nil {
			s.logger.Error("journal append failed",
				slog.String("event", ev.EventKind()),
				slog.String("error", err.Error()),
			)
		}
	}
	if s.webhooks != nil {
		seen := make(map[string]bool, len(accounts))
		for _, account := range accounts {
			if seen[account] {
				continue
			}
			seen[account] = true
			s.webhooks.Dispatch(account, ev)
		}
	}
}

// Deposit credits amount of asset to account, routing token deposits
// through the external transfer service.
func (s *ExchangeService) Deposit(ctx context.Context, account string, asset domain.Asset, amount int64) (domain.DepositEvent, error) {
	if !accountRegex.MatchString(account) {
		return domain.DepositEvent{}, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}
	if amount <= 0 {
		return domain.DepositEvent{}, &domain.ValidationError{
			Message: "amount must be a positive integer",
		}
	}

	var ev domain.DepositEvent
	var err error
	if asset.IsNative() {
		ev, err = s.engine.DepositNative(account, amount)
	} else {
		ev, err = s.engine.DepositToken(ctx, asset, account, amount)
	}
	if err != nil {
		return domain.DepositEvent{}, err
	}

	s.publish(ev, account)
	return ev, nil
}

// Withdraw debits amount of asset from account and transfers it out of
// custody.
func (s *ExchangeService) Withdraw(ctx context.Context, account string, asset domain.Asset, amount int64) (domain.WithdrawEvent, error) {
	if !accountRegex.MatchString(account) {
		return domain.WithdrawEvent{}, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}
	if amount <= 0 {
		return domain.WithdrawEvent{}, &domain.ValidationError{
			Message: "amount must be a positive integer",
		}
	}

	var ev domain.WithdrawEvent
	var err error
	if asset.IsNative() {
		ev, err = s.engine.WithdrawNative(ctx, account, amount)
	} else {
		ev, err = s.engine.WithdrawToken(ctx, asset, account, amount)
	}
	if err != nil {
		return domain.WithdrawEvent{}, err
	}

	s.publish(ev, account)
	return ev, nil
}

// MakeOrder validates the request and records a new order.
func (s *ExchangeService) MakeOrder(req MakeOrderRequest) (domain.OrderEvent, error) {
	if !accountRegex.MatchString(req.Creator) {
		return domain.OrderEvent{}, &domain.ValidationError{
			Message: "creator must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}
	if req.AmountWanted < 0 || req.AmountOffered < 0 {
		return domain.OrderEvent{}, &domain.ValidationError{
			Message: "order amounts must be >= 0",
		}
	}

	ev, err := s.engine.MakeOrder(req.Creator, req.AssetWanted, req.AmountWanted, req.AssetOffered, req.AmountOffered)
	if err != nil {
		return domain.OrderEvent{}, err
	}

	s.publish(ev, req.Creator)
	return ev, nil
}

// CancelOrder cancels an open order on behalf of caller.
func (s *ExchangeService) CancelOrder(caller string, id uint64) (domain.CancelEvent, error) {
	if !accountRegex.MatchString(caller) {
		return domain.CancelEvent{}, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}

	ev, err := s.engine.CancelOrder(caller, id)
	if err != nil {
		return domain.CancelEvent{}, err
	}

	s.publish(ev, ev.Creator)
	return ev, nil
}

// FillOrder executes an open order against filler. Both sides of the trade
// are notified.
func (s *ExchangeService) FillOrder(filler string, id uint64) (domain.TradeEvent, error) {
	if !accountRegex.MatchString(filler) {
		return domain.TradeEvent{}, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}

	ev, err := s.engine.FillOrder(filler, id)
	if err != nil {
		return domain.TradeEvent{}, err
	}

	s.publish(ev, ev.Creator, ev.Filler)
	return ev, nil
}

// BalanceOf returns the balance for (asset, account); 0 for unknown keys.
func (s *ExchangeService) BalanceOf(asset domain.Asset, account string) int64 {
	return s.engine.BalanceOf(asset, account)
}

// OrderCount returns the number of orders ever created.
func (s *ExchangeService) OrderCount() int {
	return s.engine.OrderCount()
}

// GetOrder returns a snapshot of the order with the given id, along with
// its terminal flags.
func (s *ExchangeService) GetOrder(id uint64) (domain.Order, error) {
	return s.engine.GetOrder(id)
}

// IsFilled reports whether the order exists and has been filled.
func (s *ExchangeService) IsFilled(id uint64) bool {
	return s.engine.IsFilled(id)
}

// IsCancelled reports whether the order exists and has been cancelled.
func (s *ExchangeService) IsCancelled(id uint64) bool {
	return s.engine.IsCancelled(id)
}

// ListOrders returns up to limit orders with id > afterID plus the total
// order count.
func (s *ExchangeService) ListOrders(afterID uint64, limit int) ([]domain.Order, int, error) {
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}
	orders, total := s.engine.ListOrders(afterID, limit)
	return orders, total, nil
}

// ListOrdersByCreator returns a creator's orders, newest first, paginated.
func (s *ExchangeService) ListOrdersByCreator(creator string, page, limit int) ([]domain.Order, int, error) {
	if !accountRegex.MatchString(creator) {
		return nil, 0, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}
	if page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}
	orders, total := s.engine.ListOrdersByCreator(creator, page, limit)
	return orders, total, nil
}

// Events returns up to limit journal envelopes with seq > afterSeq. It
// returns nil envelopes when the journal is disabled.
func (s *ExchangeService) Events(afterSeq uint64, limit int) ([]journal.Envelope, error) {
	if limit < 1 || limit > 100 {
		return nil, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}
	if s.journal == nil {
		return []journal.Envelope{}, nil
	}
	return s.journal.List(afterSeq, limit)
}
