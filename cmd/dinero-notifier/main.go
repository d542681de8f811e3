package main

import (
	"context"
	"errors"
	"os"
	"time"

	"dinero/internal/amqp"
	"dinero/internal/cli"
	applog "dinero/internal/log"
	"dinero/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentNotifier)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	logger.Info("Starting dinero-notifier",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	alertWorker := worker.NewAlertWorker(logger.Logger)
	err := amqp.ConsumeAlertsWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, alertWorker.HandleAlert)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Notifier stopped gracefully")
}
