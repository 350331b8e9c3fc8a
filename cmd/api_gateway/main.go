package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fraud-screening-ledger/internal/api_gateway"
	apiservice "github.com/fraud-screening-ledger/internal/api_gateway/service"
	"github.com/fraud-screening-ledger/internal/config"
	"github.com/fraud-screening-ledger/internal/data/file"
	"github.com/fraud-screening-ledger/internal/data/mongo"
	"github.com/fraud-screening-ledger/internal/data/postgres"
	"github.com/fraud-screening-ledger/internal/data/redis"
	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/fraud-screening-ledger/internal/logger"
	"github.com/fraud-screening-ledger/internal/platform/messaging/producers"
	"github.com/fraud-screening-ledger/internal/platform/persistence"
	"github.com/fraud-screening-ledger/internal/screening/components"
	"github.com/fraud-screening-ledger/internal/screening/service"
)

// closer releases a backend during shutdown
type closer func(ctx context.Context) error

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting API Gateway",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"ledger_backend", cfg.Ledger.Backend,
		"suspension_backend", cfg.Suspension.Backend,
		"classifier_backend", cfg.Classifier.Backend,
		"notifier_backend", cfg.Notifier.Backend,
	)

	var closers []closer

	ledgerRepo, closeLedger, err := openLedger(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	closers = append(closers, closeLedger)

	suspensionRepo, closeSuspensions, err := openSuspensions(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize suspension registry", "error", err)
		os.Exit(1)
	}
	closers = append(closers, closeSuspensions)

	transport, closeTransport, err := openNotifier(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize notifier", "error", err)
		os.Exit(1)
	}
	closers = append(closers, closeTransport)

	// Initialize services
	workflowService, shutdownNotifications := components.CreateWorkflowService(cfg, ledgerRepo, suspensionRepo, transport, log)
	reportService := service.NewReportService(ledgerRepo, log)
	suspensionService := apiservice.NewSuspensionService(suspensionRepo)

	server := api_gateway.NewServer(log, cfg, workflowService, reportService, suspensionService)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before draining notifications they queued
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	shutdownNotifications()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](shutdownCtx); err != nil {
			log.Error("Error closing backend", "error", err)
			shutdownErr = err
		}
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if shutdownErr != nil || serverErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}

func openLedger(ctx context.Context, log *slog.Logger, cfg *config.Config) (ledger.Repository, closer, error) {
	switch cfg.Ledger.Backend {
	case config.BackendMongo:
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return mongo.NewLedgerRepository(log, mongoDB.Database()), mongoDB.Close, nil
	default:
		store, err := file.NewLedgerStore(log, cfg.Ledger.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file ledger", "path", cfg.Ledger.FilePath)
		return store, noopCloser, nil
	}
}

func openSuspensions(ctx context.Context, log *slog.Logger, cfg *config.Config) (suspension.Repository, closer, error) {
	var (
		repo      suspension.Repository
		closeRepo closer = noopCloser
	)

	switch cfg.Suspension.Backend {
	case config.BackendPostgres:
		postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo = postgres.NewSuspensionRepository(log, postgresDB)
		closeRepo = func(context.Context) error {
			postgresDB.Close()
			return nil
		}
	default:
		store, err := file.NewSuspensionStore(log, cfg.Suspension.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using file suspension registry", "path", cfg.Suspension.FilePath)
		repo = store
	}

	if !cfg.Suspension.CacheEnabled {
		return repo, closeRepo, nil
	}

	client, err := persistence.NewRedisClient(ctx, log, &cfg.Redis)
	if err != nil {
		_ = closeRepo(ctx)
		return nil, nil, err
	}
	cached := redis.NewSuspensionCache(log.With("component", "suspension_cache"), repo, client, cfg.Redis.TTL)
	return cached, func(ctx context.Context) error {
		if err := client.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
		}
		return closeRepo(ctx)
	}, nil
}

func openNotifier(ctx context.Context, log *slog.Logger, cfg *config.Config) (service.Notifier, closer, error) {
	if cfg.Notifier.Backend != config.BackendKafka {
		return components.NewLogNotifier(log.With("component", "notifier")), noopCloser, nil
	}

	producer, err := producers.NewNotificationProducer(ctx, log, &cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	return producer, func(context.Context) error { return producer.Close() }, nil
}

func noopCloser(context.Context) error { return nil }
