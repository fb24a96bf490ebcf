package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wastechart/internal/cli"
	"wastechart/internal/config"
	apphttp "wastechart/internal/http"
	"wastechart/internal/log"
	"wastechart/internal/render"
	"wastechart/internal/services"
	"wastechart/internal/storage"
	"wastechart/internal/wasteapi"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).Validate)
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	client := wasteapi.New(wasteapi.Config{
		BaseURL:  cfg.WasteAPIBaseURL,
		Username: cfg.WasteAPIUsername,
		Password: cfg.WasteAPIPassword,
		Timeout:  cfg.WasteAPITimeout,
	})

	// Events are best effort: the server runs without a broker.
	var publisher services.EventPublisher
	amqpClient := cli.InitAMQP(logger, cfg, false)
	if amqpClient != nil {
		publisher = amqpClient
	}

	var history apphttp.HistoryReader
	var repo *storage.SQLiteRepository
	if cfg.HistoryEnabled {
		repo = cli.InitSQLite(logger, cfg.SQLiteDBPath)
		history = repo
		logger.Info("Render history enabled", "path", cfg.SQLiteDBPath)
	}

	charts := services.NewChartService(client, render.New(cfg.ChartWidth, cfg.ChartHeight), publisher, logger)
	srv := apphttp.NewServer(apphttp.Options{
		Addr:    ":" + cfg.Port,
		Charts:  charts,
		History: history,
		Logger:  logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if repo != nil {
			_ = repo.Close()
		}
	})

	logger.Info("Starting wastechart server",
		"port", cfg.Port,
		"waste_api", cfg.WasteAPIBaseURL,
		"amqp", amqpClient != nil,
		"history", cfg.HistoryEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
