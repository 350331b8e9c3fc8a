package components

import (
	"log/slog"

	"github.com/fraud-screening-ledger/internal/config"
	"github.com/fraud-screening-ledger/internal/domain/ledger"
	"github.com/fraud-screening-ledger/internal/domain/suspension"
	"github.com/fraud-screening-ledger/internal/screening/service"
)

// CreateClassifier builds the classifier selected by CLASSIFIER_BACKEND
func CreateClassifier(cfg config.ClassifierConfig, logger *slog.Logger) service.Classifier {
	if cfg.Backend == config.BackendHTTP {
		logger.Info("Using HTTP classifier", "url", cfg.URL, "timeout", cfg.Timeout)
		return NewHTTPClassifier(cfg.URL, cfg.Timeout, logger)
	}
	logger.Info("Using rules classifier",
		"amount_threshold", cfg.AmountThreshold.String(),
		"suspicious_locations", cfg.SuspiciousLocations,
	)
	return NewRulesClassifier(cfg.AmountThreshold, cfg.SuspiciousLocations, logger)
}

// CreateWorkflowService creates a WorkflowService with all its dependencies.
// Notifications are delivered through transport on a worker pool; the returned
// function drains and releases that pool.
func CreateWorkflowService(
	cfg *config.Config,
	ledgerRepo ledger.Repository,
	suspensionRepo suspension.Repository,
	transport service.Notifier,
	logger *slog.Logger,
) (service.WorkflowService, func()) {
	validator := NewIntakeValidator(logger)
	classifier := CreateClassifier(cfg.Classifier, logger.With("component", "classifier"))

	notifier := transport
	shutdown := func() {}

	asyncNotifier, err := service.NewAsyncNotifier(
		transport,
		service.DispatchConfig{
			Size:    cfg.WorkerPool.Size,
			Timeout: cfg.Notifier.DispatchTimeout,
		},
		logger.With("component", "notification_pool"),
	)
	if err != nil {
		logger.Error("Failed to create notification pool, falling back to synchronous delivery", "error", err)
	} else {
		logger.Info("Created notification pool", "pool_size", cfg.WorkerPool.Size)
		notifier = asyncNotifier
		shutdown = asyncNotifier.Shutdown
	}

	workflow := service.NewWorkflowService(
		validator,
		classifier,
		notifier,
		ledgerRepo,
		suspensionRepo,
		service.WorkflowConfig{EnforceSuspension: cfg.Workflow.EnforceSuspension},
		logger,
	)
	return workflow, shutdown
}
