package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"dinero/internal/amqp"
	"dinero/internal/cli"
	apphttp "dinero/internal/http"
	applog "dinero/internal/log"
	"dinero/internal/services"
	"dinero/internal/storage/memstore"
)

// dataStore is what a backend must provide: transactions plus accounts.
type dataStore interface {
	services.Store
	services.UserStore
	Ping(ctx context.Context) error
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose data backend (default: sqlite).
	var store dataStore
	closeStore := func() error { return nil }
	switch cfg.DataBackend {
	case "memory":
		store = memstore.New()
		logger.Info("Initialized memory backend")
	default:
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		store = repo
		closeStore = repo.Close
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	}

	// AMQP is optional; without it alerts stay in the HTTP response only.
	var publisher services.AlertPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP alerts enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP alerts disabled - no AMQP_URL provided")
	}

	evaluator := services.NewBudgetEvaluator(store)
	svc := apphttp.Services{
		Auth:     services.NewAuthService(store),
		Expenses: services.NewExpenseService(store, evaluator, publisher, cfg.LargeExpenseThreshold),
		Budgets:  services.NewBudgetService(store),
		Summary:  services.NewSummaryService(store, evaluator),
		Trends:   services.NewTrendBuilder(store),
		Forecast: services.NewForecastEstimator(store),
	}
	sessions := apphttp.NewSessionStore(cfg.SessionTTL)
	server := apphttp.NewServer(svc, sessions, cfg.TrendDays)
	server.SetReadyCheck(store.Ping)

	httpServer := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting dinero server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	server.Close()
	if amqpClient != nil {
		if cErr := amqpClient.Close(); cErr != nil {
			logger.Error("AMQP close error", "error", cErr)
		}
	}
	if cErr := closeStore(); cErr != nil {
		logger.Error("Store close error", "error", cErr)
	}

	if err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
