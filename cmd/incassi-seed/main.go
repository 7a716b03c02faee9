package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"incassi/internal/config"
	"incassi/internal/core"
	"incassi/internal/storage"
)

// Demo data for local development: a realistic-looking spread of takings
// across two days. Amounts are in cents.
var seedHours = map[int][]struct {
	Hour  int
	Cents int64
}{
	0: {
		{Hour: 9, Cents: 5000},
		{Hour: 11, Cents: 12500},
		{Hour: 14, Cents: 7550},
		{Hour: 16, Cents: 20000},
	},
	1: {
		{Hour: 10, Cents: 8000},
		{Hour: 15, Cents: 15000},
	},
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	now := time.Now()

	for daysAgo, rows := range seedHours {
		date := now.AddDate(0, 0, -daysAgo).Format(core.DateLayout)

		existing, err := repo.ListEntriesByDate(ctx, date)
		if err != nil {
			logger.Error("Failed to check existing entries", "error", err, "date", date)
			os.Exit(1)
		}
		if len(existing) > 0 {
			logger.Info("Day already has entries, skipping", "date", date, "count", len(existing))
			continue
		}

		for _, row := range rows {
			if _, err := repo.CreateEntry(ctx, core.NewEntry(date, row.Hour, row.Cents)); err != nil {
				logger.Error("Failed to seed entry", "error", err, "date", date, "hour", row.Hour)
				os.Exit(1)
			}
		}
		logger.Info("Seeded day", "date", date, "entries", len(rows))
	}

	logger.Info("Seeding complete", "path", cfg.SQLiteDBPath)
}
