// Package cli holds the start-up plumbing shared by the binaries and the
// wastectl command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wastechart/internal/amqp"
	"wastechart/internal/config"
	"wastechart/internal/log"
	"wastechart/internal/storage"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from config and makes it the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and exits on validation failure.
func LoadAndValidateConfig(validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the history database or exits.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// InitAMQP connects to the broker. Nil is returned, with a warning, when the
// broker is unreachable and required is false.
func InitAMQP(logger *log.Logger, cfg *config.Config, required bool) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		if required {
			logger.Error("Failed to connect to AMQP", log.FieldError, err)
			os.Exit(1)
		}
		logger.Warn("AMQP unavailable, render events disabled", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// GracefulShutdown cancels the returned context on SIGINT or SIGTERM and runs
// cleanup with a deadline of timeout. done is closed once cleanup returns.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until shutdown has started and cleanup has finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
