package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maltedev/county-image-crawler/internal/config"
	"github.com/maltedev/county-image-crawler/internal/database"
	"github.com/maltedev/county-image-crawler/internal/logger"
	"github.com/maltedev/county-image-crawler/internal/models"
	"github.com/maltedev/county-image-crawler/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := storage.LoadWorkItems(cfg.Paths.DataFile)
	if err != nil {
		log.Error("failed to load dataset", "path", cfg.Paths.DataFile, "error", err)
		os.Exit(1)
	}

	results, err := storage.NewResultFile(cfg.Paths.OutputFile).Load()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		log.Info("no crawled images yet, seeding without images", "path", cfg.Paths.OutputFile)
		results = models.ResultSet{}
	default:
		log.Error("failed to read crawled images", "path", cfg.Paths.OutputFile, "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewCountyRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	n, err := repo.SeedCounties(ctx, database.MergeCounties(items, results))
	if err != nil {
		log.Error("failed to seed counties", "error", err)
		os.Exit(1)
	}

	log.Info("seed complete", "rows", n, "with_images", len(results))
}
