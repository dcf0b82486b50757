package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/service"
)

// seedDemo loads a demo data set: two funded accounts, a cancelled order,
// a few completed trades, and a handful of open orders on each side.
func seedDemo(svc *service.ExchangeService, logger *slog.Logger) error {
	ctx := context.Background()
	gold := domain.Token("GOLD")

	if _, err := svc.Deposit(ctx, "alice", domain.Native(), 100_000); err != nil {
		return fmt.Errorf("seed deposit: %w", err)
	}
	if _, err := svc.Deposit(ctx, "bob", gold, 100_000); err != nil {
		return fmt.Errorf("seed deposit: %w", err)
	}

	// A placed-then-cancelled order.
	ev, err := svc.MakeOrder(service.MakeOrderRequest{
		Creator:       "alice",
		AssetWanted:   gold,
		AmountWanted:  100,
		AssetOffered:  domain.Native(),
		AmountOffered: 10,
	})
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	if _, err := svc.CancelOrder("alice", ev.ID); err != nil {
		return fmt.Errorf("seed cancel: %w", err)
	}

	// A few completed trades.
	for i, amount := range []int64{100, 50, 200} {
		ev, err := svc.MakeOrder(service.MakeOrderRequest{
			Creator:       "alice",
			AssetWanted:   gold,
			AmountWanted:  amount,
			AssetOffered:  domain.Native(),
			AmountOffered: int64(10 * (i + 1)),
		})
		if err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
		if _, err := svc.FillOrder("bob", ev.ID); err != nil {
			return fmt.Errorf("seed fill: %w", err)
		}
	}

	// Open orders on both sides.
	for i := int64(1); i <= 5; i++ {
		if _, err := svc.MakeOrder(service.MakeOrderRequest{
			Creator:       "alice",
			AssetWanted:   gold,
			AmountWanted:  10 * i,
			AssetOffered:  domain.Native(),
			AmountOffered: 10,
		}); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
		if _, err := svc.MakeOrder(service.MakeOrderRequest{
			Creator:       "bob",
			AssetWanted:   domain.Native(),
			AmountWanted:  10,
			AssetOffered:  gold,
			AmountOffered: 10 * i,
		}); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
	}

	logger.Info("seeded demo data",
		slog.Int("orders", svc.OrderCount()),
		slog.Int64("alice_gold", svc.BalanceOf(gold, "alice")),
		slog.Int64("bob_native", svc.BalanceOf(domain.Native(), "bob")),
	)
	return nil
}
