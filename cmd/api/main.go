package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"samarth/internal/config"
	"samarth/internal/di"
	"samarth/internal/interfaces/http/rest"

	"go.uber.org/zap"
)

func main() {
	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger
	logger.Info("Configuration loaded",
		zap.String("environment", string(cfg.Environment)),
		zap.Strings("sources", cfg.LoadedFrom),
	)

	if snap, err := container.LoadDataset(ctx); err != nil {
		logger.Error("Dataset not loaded; serving as not ready", zap.Error(err))
	} else {
		logger.Info("Dataset loaded",
			zap.String("source", snap.Source()),
			zap.String("version", snap.Version()),
			zap.Int("regions", snap.Len()),
		)
	}

	srv := rest.NewServer(cfg.Server, container.Router.Setup())
	if err := rest.ListenAndServe(ctx, srv, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Error("Server failed", zap.Error(err))
		return
	}

	log.Println("Server stopped")
}
