// Package main provides a CLI for schema migrations.
// Usage: migrate up | down | steps N | version
package main

import (
	"fmt"
	"os"
	"strconv"

	"inventrack/internal/config"
	"inventrack/internal/infrastructure/storage/postgres/migrations"
	"inventrack/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Println("INVENTRACK_DATABASE_URL is required")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	m, err := migrations.New(cfg.Database.URL, log.Desugar())
	if err != nil {
		log.Fatalw("failed to open migrations", "error", err)
	}
	defer func() { _ = m.Close() }()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fmt.Printf("invalid step count: %s\n", os.Args[2])
			os.Exit(1)
		}
		err = m.Steps(n)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil {
			err = vErr
			break
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalw("migration failed", "command", os.Args[1], "error", err)
	}
}

func printUsage() {
	fmt.Println(`Inventrack migrations

Usage:
  migrate <command> [args]

Commands:
  up         Apply all pending migrations
  down       Roll back all migrations
  steps N    Apply N migrations (negative rolls back)
  version    Print the current schema version
  help       Show this help`)
}
