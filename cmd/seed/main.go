// Command seed populates the eateries table from the Google Places API.
// It is run manually (or from a scheduler); the live API never writes.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	database "github.com/weeliem/go-eatery-directory/app/db"
	"github.com/weeliem/go-eatery-directory/app/observability/metrics"
	"github.com/weeliem/go-eatery-directory/app/tracer"
	"github.com/weeliem/go-eatery-directory/config"
	"github.com/weeliem/go-eatery-directory/internal/ingest"
	"github.com/weeliem/go-eatery-directory/internal/places"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The sweep is pointless without a key, fail fast
	apiKey := config.PlacesAPIKey()
	if apiKey == "" {
		logger.Error("FATAL: GOOGLE_MAPS_API_KEY not set")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics("eatery-directory-seed"); err != nil {
		logger.Error("Failed to initialize metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	placesClient := places.NewClient(cfg.Places.BaseURL, apiKey, cfg.Places.Timeout, logger)
	repo := ingest.NewRepository(pool, logger)
	pipeline := ingest.NewPipeline(cfg.Ingestion, placesClient, repo, logger)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Ingestion run ended early", slog.Any("error", err))
		if stats != nil {
			logStats(logger, stats)
		}
		os.Exit(1)
	}
	logStats(logger, stats)
}

func logStats(logger *slog.Logger, stats *ingest.Stats) {
	logger.Info("Seed run summary",
		slog.Int("pages", stats.Pages),
		slog.Int("seen", stats.Seen),
		slog.Int("filtered_out", stats.FilteredOut),
		slog.Int("inserted", stats.Inserted),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)
}
