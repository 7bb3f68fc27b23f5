package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bankofmilo/bank/internal/config"
	"github.com/bankofmilo/bank/internal/db"
	"github.com/bankofmilo/bank/internal/handlers"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/bankofmilo/bank/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting bank api",
		"port", cfg.Server.Port,
		"store", cfg.Database.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store repository.Store
	switch cfg.Database.Driver {
	case "postgres":
		database, err := db.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		store = repository.NewPostgresStore(database)
	default:
		store = repository.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	feeProcessor := scheduler.NewFeeProcessor(store, cfg.Bank.MaintenanceFee, cfg.Bank.BillingPeriodDays, logger)
	loanProcessor := scheduler.NewLoanProcessor(store, logger)
	go scheduler.NewRunner(feeProcessor, cfg.Bank.TickInterval, logger).Run(ctx)
	go scheduler.NewRunner(loanProcessor, cfg.Bank.TickInterval, logger).Run(ctx)

	router := handlers.NewRouter(store, cfg, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
