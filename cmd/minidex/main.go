package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/efreitasn/minidex/internal/config"
	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/engine"
	"github.com/efreitasn/minidex/internal/handler"
	"github.com/efreitasn/minidex/internal/journal"
	"github.com/efreitasn/minidex/internal/service"
	"github.com/efreitasn/minidex/internal/store"
	"github.com/efreitasn/minidex/internal/transfer"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	seed := flag.Bool("seed", false, "Seed demo accounts and orders on startup")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	ledger := store.NewLedger()
	book := store.NewOrderBook()
	webhookStore := store.NewWebhookStore()

	// Event journal.
	jour, err := journal.Open(cfg.JournalPath)
	if err != nil {
		logger.Error("failed to open journal", slog.String("path", cfg.JournalPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer jour.Close()

	// Custody boundary: external custodian when configured, local approval
	// otherwise.
	var transfers engine.AssetTransferService
	if cfg.CustodianURL != "" {
		transfers = transfer.NewCustodian(cfg.CustodianURL, cfg.CustodianTimeout)
		logger.Info("using external custodian", slog.String("url", cfg.CustodianURL))
	} else {
		transfers = transfer.NewLoopback()
	}

	// Engine.
	eng := engine.New(ledger, book, transfers, domain.FeePolicy{
		Account: cfg.FeeAccount,
		Percent: int64(cfg.FeePercent),
	})

	// Services.
	webhookSvc := service.NewWebhookService(webhookStore, cfg.WebhookTimeout)
	exchangeSvc := service.NewExchangeService(eng, webhookSvc, jour, logger)

	if *seed {
		if err := seedDemo(exchangeSvc, logger); err != nil {
			logger.Error("seed failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Router.
	router := handler.NewRouter(exchangeSvc, webhookSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, then close the journal via defer.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
