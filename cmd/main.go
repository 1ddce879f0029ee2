/**
 * @description
 * This is the main entry point for the invest-service. The service hosts the
 * customer-facing investment API (plans, subscriptions, deposits, withdrawals,
 * balances, ledger history) together with the cron-driven daily earnings
 * accrual. It initializes the configuration, database connection, event
 * producer, scheduler and HTTP server, then waits for a termination signal.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gazoduc/invest-service/internal/api"
	"github.com/gazoduc/invest-service/internal/app"
	"github.com/gazoduc/invest-service/internal/config"
	"github.com/gazoduc/invest-service/internal/store"
	"github.com/gazoduc/invest-service/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Establish database connection with connection pool configuration
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 50
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// The event producer falls back to a no-op when the broker is down so the
	// ledger keeps working without notifications.
	var events rabbitmq.Publisher
	if cfg.AMQPURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.AMQPURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events will be dropped", "error", err)
			events = &rabbitmq.EventProducerFallback{}
		} else {
			events = producer
		}
	} else {
		events = &rabbitmq.EventProducerFallback{}
	}
	defer events.Close()

	// Initialize dependencies
	repository := store.NewPostgresRepository(dbpool)
	runTimeout := time.Duration(cfg.EarningsRunTimeoutSec) * time.Second
	earnings := app.NewEarnings(repository, events, logger, runTimeout)
	service := app.NewService(repository, events, logger)
	jobs := app.NewJobs(earnings, repository, logger)
	scheduler := app.NewScheduler(jobs, logger, *cfg)

	// Start the cron scheduler in the background
	scheduler.Start()
	logger.Info("scheduler started")

	// Start the HTTP server
	handlers := api.NewHandlers(service, earnings)
	router := api.NewRouter(handlers, cfg.JWTSecret, cfg.AdminAPIKey)
	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: router,
	}

	go func() {
		logger.Info("starting invest-service server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Stop the scheduler and wait for running jobs to finish
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("invest-service stopped gracefully")
}
