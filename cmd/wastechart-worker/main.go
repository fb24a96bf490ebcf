package main

import (
	"context"
	"errors"
	"os"
	"time"

	"wastechart/internal/cli"
	"wastechart/internal/config"
	"wastechart/internal/log"
	"wastechart/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting wastechart-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient := cli.InitAMQP(logger, cfg, true)
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	history := worker.NewHistoryWorker(repo, logger)
	if err := history.StartupCheck(ctx); err != nil {
		logger.Error("History store check failed", log.FieldError, err)
		os.Exit(1)
	}

	err := amqpClient.ConsumeWithReconnect(ctx, history.HandleRenderEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
