package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/echohealth-screening-server/internal/api"
	"github.com/echohealth-screening-server/internal/cache"
	"github.com/echohealth-screening-server/internal/config"
	"github.com/echohealth-screening-server/internal/database"
	"github.com/echohealth-screening-server/internal/logging"
	"github.com/echohealth-screening-server/internal/repository"
	"github.com/echohealth-screening-server/internal/service"
	"github.com/echohealth-screening-server/pkg/classifier"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.NewLogger(cfg.Logging)
	logger.Infof("Starting EchoHealth screening server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Durable history tier
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open activity database")
	}
	defer db.Close()

	migrator, err := database.NewMigrationRunner(db, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to prepare migrations")
	}
	if err := migrator.Up(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate activity database")
	}

	history := repository.NewHistoryStore(db, logger)

	// Recency cache tier; an unreachable Redis degrades to process memory
	// rather than blocking startup.
	var blobStore cache.BlobStore
	redisStore, err := cache.NewRedisStore(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using in-memory recent-activity store")
		blobStore = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		blobStore = redisStore
	}
	recent := cache.NewRecentActivityCache(blobStore, cfg.Cache.Capacity, logger)

	// Remote classifier with breaker and memo
	remote, err := classifier.NewResilientClient(
		classifier.NewClient(cfg.Classifier, logger),
		cfg.Classifier.MemoSize,
		logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build classifier client")
	}

	orchestrator := service.NewOrchestrator(
		remote,
		service.NewRiskEngine(logger),
		service.NewNormalizer(),
		history,
		recent,
		logger,
	)

	// Create server
	server := api.NewServer(cfg, orchestrator, history, recent, logger)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}

	logger.Info("Server stopped")
}
