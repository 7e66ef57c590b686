// Package main is the entry point for the Inventrack maintenance worker.
// It periodically deletes expired refresh tokens and idempotency keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"inventrack/internal/app"
	"inventrack/internal/config"
	"inventrack/internal/infrastructure/storage/postgres"
	"inventrack/internal/infrastructure/storage/postgres/auth_repo"
	"inventrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: !cfg.App.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	if cfg.Database.URL == "" {
		log.Fatal("database.url is required for the worker")
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting inventrack worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)
	tokens := auth_repo.NewTokenRepo(txm)
	idem := postgres.NewIdempotencyStore(txm, cfg.HTTP.IdempotencyTTL)

	janitor := app.NewJanitor(getEnvDuration("WORKER_INTERVAL", time.Hour), log,
		app.CleanupTask{Name: "refresh_tokens", Run: func(ctx context.Context) (int64, error) {
			n, err := tokens.CleanupExpiredTokens(ctx)
			return int64(n), err
		}},
		app.CleanupTask{Name: "idempotency_keys", Run: idem.CleanupExpired},
		app.CleanupTask{Name: "pool_stats", Run: func(ctx context.Context) (int64, error) {
			pool.LogStats(ctx)
			return 0, nil
		}},
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
