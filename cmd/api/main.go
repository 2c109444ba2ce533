package main

import (
	"context"
	"errors"
	"fileupload/internal/adapters/decoder/multipart"
	"fileupload/internal/adapters/eventbroker/nats"
	"fileupload/internal/adapters/handlers/http/chi"
	uploadhandler "fileupload/internal/adapters/handlers/http/chi/v1/upload"
	"fileupload/internal/adapters/transform/imagemagick"
	"fileupload/internal/config"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/cleanup"
	"fileupload/internal/core/service/derivative"
	"fileupload/internal/core/service/filemanager"
	"fileupload/internal/core/service/lifecycle"
	"fileupload/internal/core/service/upload"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	profiles, err := config.LoadProfiles(cfg.Upload)
	if err != nil {
		logger.Error("failed to load upload profiles", "error", err)
		os.Exit(1)
	}
	for _, p := range profiles {
		logger.Info("upload profile loaded", "profile", p.Name, "dir", p.UploadDir, "versions", len(p.ImageVersions))
	}

	//events
	listeners := []port.EventListener{lifecycle.NewLoggingListener(logger)}
	var publishing *lifecycle.PublishingListener
	if cfg.NATS.URL != "" {
		publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publishing = lifecycle.NewPublishingListener(ctx, publisher, logger)
		listeners = append(listeners, publishing)
		logger.Info("NATS publisher initialized", "subject", cfg.NATS.Subject)
	}
	listener := lifecycle.Multi(listeners...)

	//services
	transformer := imagemagick.NewTransformer(cfg.Transform, logger)
	generator := derivative.NewDerivativeGenerator(transformer, logger, derivative.WithTimeout(cfg.Transform.Timeout))
	uploadService := upload.NewUploadService(profiles, generator, logger)
	fileManager := filemanager.NewFileManager(profiles, listener, logger)
	cleanupService := cleanup.NewCleanupService(profiles, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, fileManager, multipart.NewDecoder(logger), listener, cfg.Server.BasePath, logger)

	router := chi.NewRouter(logger, uploadHandler, cfg.Server.BasePath, cfg.Env.Env)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "base_path", cfg.Server.BasePath)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Upload.CleanupEvery, cfg.Upload.TempTTL, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}
	if publishing != nil {
		if err := publishing.Close(shutdownCtx); err != nil {
			logger.Error("failed to flush upload events", "error", err)
		}
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initCleanupTask(ctx context.Context, service port.CleanupService, every, ttl time.Duration, logger *slog.Logger) {
	if every <= 0 {
		logger.Info("cleanup task disabled")
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every, "ttl", ttl)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			removed, err := service.CleanupStaleTempFiles(ctx, time.Now().Add(-ttl))
			if err != nil {
				logger.Error("failed to cleanup stale files", "error", err)
			} else {
				logger.Info("cleanup task completed successfully", "removed", removed)
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
