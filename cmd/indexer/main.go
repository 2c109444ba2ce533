package main

import (
	"context"
	"errors"
	"fileupload/internal/adapters/eventbroker/nats"
	"fileupload/internal/adapters/repository/postgres"
	"fileupload/internal/adapters/storage/minio"
	"fileupload/internal/config"
	"fileupload/internal/core/service/catalog"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required")
		os.Exit(1)
	}
	profiles, err := config.LoadProfiles(cfg.Upload)
	if err != nil {
		logger.Error("failed to load upload profiles", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	if cfg.Database.AutoMigrate {
		err := postgres.Migrate(db, cfg.Database.MigrationsDir, postgres.MigrateUp)
		if err != nil && !errors.Is(err, postgres.ErrNoChange) {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("db schema migrated", "source", cfg.Database.MigrationsDir)
	}

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	// Initialize services
	repo := postgres.NewSqlUploadedFileRepository(db)
	catalogService := catalog.NewCatalogService(profiles, repo, minioAdapter, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, catalogService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down indexer")

	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("indexer shutdown complete")
}
