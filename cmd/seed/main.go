// Package main provides a CLI tool for seeding the database with demo data.
// Existing rows are truncated; ids are fixed so the data set is reproducible.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inventrack/internal/config"
	appctx "inventrack/internal/core/context"
	"inventrack/internal/infrastructure/storage/postgres"
	"inventrack/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("INVENTRACK_DATABASE_URL is required")
	}

	ctx := appctx.WithTrace(logger.WithLogger(context.Background(), log), appctx.NewTraceContext())

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	adminPassword := getEnv("ADMIN_PASSWORD", "Admin123!")
	clerkPassword := getEnv("CLERK_PASSWORD", "Clerk123!")
	hashes := make(map[string]string, 2)
	for _, pw := range []string{adminPassword, clerkPassword} {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalw("failed to hash password", "error", err)
		}
		hashes[pw] = string(h)
	}

	data := demoData(demoConfig{
		Now:           time.Now().UTC().Truncate(24 * time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@inventrack.local"),
		AdminPassword: hashes[adminPassword],
		ClerkEmail:    getEnv("CLERK_EMAIL", "clerk@inventrack.local"),
		ClerkPassword: hashes[clerkPassword],
	})

	txm := postgres.NewTxManager(pool)
	inserter := postgres.NewBatchInserter(txm)

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := inserter.ExecuteBatch(ctx, []postgres.BatchQuery{{SQL: truncateSQL}}); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		resets := make([]postgres.BatchQuery, 0, len(data))
		for _, t := range data {
			n, err := inserter.CopyFromSlice(ctx, t.Table, t.Columns, t.Rows)
			if err != nil {
				return err
			}
			log.Infow("seeded table", "table", t.Table, "rows", n)
			resets = append(resets, postgres.BatchQuery{SQL: resetSequenceSQL(t.Table)})
		}
		return inserter.ExecuteBatch(ctx, resets)
	})
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
