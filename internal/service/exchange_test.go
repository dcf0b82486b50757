package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/engine"
	"github.com/efreitasn/minidex/internal/journal"
	"github.com/efreitasn/minidex/internal/store"
	"github.com/efreitasn/minidex/internal/transfer"
)

var gold = domain.Token("GOLD")

func newTestService(t *testing.T) *ExchangeService {
	t.Helper()
	eng := engine.New(store.NewLedger(), store.NewOrderBook(), transfer.NewLoopback(), domain.FeePolicy{
		Account: "treasury",
		Percent: 10,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExchangeService(eng, nil, nil, logger)
}

func TestExchangeService_Deposit_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		account string
		amount  int64
	}{
		{"empty account", "", 1},
		{"account with spaces", "u 1", 1},
		{"account too long", string(make([]byte, 65)), 1},
		{"zero amount", "u1", 0},
		{"negative amount", "u1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Deposit(context.Background(), tt.account, domain.Native(), tt.amount)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Deposit() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestExchangeService_Deposit_RoutesByAssetKind(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Deposit(context.Background(), "u1", domain.Native(), 5); err != nil {
		t.Fatalf("Deposit(native): %v", err)
	}
	if _, err := svc.Deposit(context.Background(), "u1", gold, 7); err != nil {
		t.Fatalf("Deposit(gold): %v", err)
	}

	if got := svc.BalanceOf(domain.Native(), "u1"); got != 5 {
		t.Errorf("BalanceOf(native, u1) = %d, want 5", got)
	}
	if got := svc.BalanceOf(gold, "u1"); got != 7 {
		t.Errorf("BalanceOf(gold, u1) = %d, want 7", got)
	}
}

func TestExchangeService_Withdraw(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Deposit(context.Background(), "u1", domain.Native(), 5); err != nil {
		t.Fatalf("Deposit(): %v", err)
	}
	if _, err := svc.Withdraw(context.Background(), "u1", domain.Native(), 5); err != nil {
		t.Fatalf("Withdraw(): %v", err)
	}
	if got := svc.BalanceOf(domain.Native(), "u1"); got != 0 {
		t.Errorf("BalanceOf(native, u1) = %d, want 0", got)
	}

	if _, err := svc.Withdraw(context.Background(), "u1", domain.Native(), 1); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Withdraw() on empty balance error = %v, want ErrInsufficientBalance", err)
	}
}

func TestExchangeService_MakeOrder(t *testing.T) {
	svc := newTestService(t)

	ev, err := svc.MakeOrder(MakeOrderRequest{
		Creator:       "u1",
		AssetWanted:   gold,
		AmountWanted:  10,
		AssetOffered:  domain.Native(),
		AmountOffered: 5,
	})
	if err != nil {
		t.Fatalf("MakeOrder(): %v", err)
	}
	if ev.ID != 1 {
		t.Errorf("order id = %d, want 1", ev.ID)
	}
	if got := svc.OrderCount(); got != 1 {
		t.Errorf("OrderCount() = %d, want 1", got)
	}

	var ve *domain.ValidationError
	_, err = svc.MakeOrder(MakeOrderRequest{Creator: "bad account!", AssetWanted: gold, AmountWanted: 1, AssetOffered: domain.Native(), AmountOffered: 1})
	if !errors.As(err, &ve) {
		t.Errorf("MakeOrder(bad creator) error = %v, want *ValidationError", err)
	}
	_, err = svc.MakeOrder(MakeOrderRequest{Creator: "u1", AssetWanted: gold, AmountWanted: -1, AssetOffered: domain.Native(), AmountOffered: 1})
	if !errors.As(err, &ve) {
		t.Errorf("MakeOrder(negative amount) error = %v, want *ValidationError", err)
	}
}

func TestExchangeService_CancelAndFill_PropagateEngineErrors(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CancelOrder("u1", 99999); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("CancelOrder(unknown) error = %v, want ErrOrderNotFound", err)
	}
	if _, err := svc.FillOrder("u1", 99999); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("FillOrder(unknown) error = %v, want ErrOrderNotFound", err)
	}

	ev, err := svc.MakeOrder(MakeOrderRequest{Creator: "u1", AssetWanted: gold, AmountWanted: 1, AssetOffered: domain.Native(), AmountOffered: 1})
	if err != nil {
		t.Fatalf("MakeOrder(): %v", err)
	}
	if _, err := svc.CancelOrder("u2", ev.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("CancelOrder(non-creator) error = %v, want ErrUnauthorized", err)
	}
}

func TestExchangeService_ListOrders_Validation(t *testing.T) {
	svc := newTestService(t)

	var ve *domain.ValidationError
	if _, _, err := svc.ListOrders(0, 0); !errors.As(err, &ve) {
		t.Errorf("ListOrders(limit 0) error = %v, want *ValidationError", err)
	}
	if _, _, err := svc.ListOrders(0, 101); !errors.As(err, &ve) {
		t.Errorf("ListOrders(limit 101) error = %v, want *ValidationError", err)
	}
	if _, _, err := svc.ListOrdersByCreator("u1", 0, 10); !errors.As(err, &ve) {
		t.Errorf("ListOrdersByCreator(page 0) error = %v, want *ValidationError", err)
	}
}

func TestExchangeService_Events_JournalDisabled(t *testing.T) {
	svc := newTestService(t)

	envs, err := svc.Events(0, 10)
	if err != nil {
		t.Fatalf("Events(): %v", err)
	}
	if len(envs) != 0 {
		t.Errorf("Events() with nil journal len = %d, want 0", len(envs))
	}
}

func TestExchangeService_Events_RecordsOperations(t *testing.T) {
	jour, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("journal.Open(): %v", err)
	}
	defer jour.Close()

	eng := engine.New(store.NewLedger(), store.NewOrderBook(), transfer.NewLoopback(), domain.FeePolicy{
		Account: "treasury",
		Percent: 10,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExchangeService(eng, nil, jour, logger)

	if _, err := svc.Deposit(context.Background(), "u1", domain.Native(), 10); err != nil {
		t.Fatalf("Deposit(): %v", err)
	}
	if _, err := svc.MakeOrder(MakeOrderRequest{Creator: "u1", AssetWanted: gold, AmountWanted: 1, AssetOffered: domain.Native(), AmountOffered: 1}); err != nil {
		t.Fatalf("MakeOrder(): %v", err)
	}

	envs, err := svc.Events(0, 10)
	if err != nil {
		t.Fatalf("Events(): %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("Events() len = %d, want 2", len(envs))
	}
	if envs[0].Kind != domain.EventDeposit || envs[1].Kind != domain.EventOrderPlaced {
		t.Errorf("event kinds = %q, %q, want deposit, order.placed", envs[0].Kind, envs[1].Kind)
	}
}
