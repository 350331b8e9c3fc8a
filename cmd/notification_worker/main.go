package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fraud-screening-ledger/internal/config"
	"github.com/fraud-screening-ledger/internal/logger"
	"github.com/fraud-screening-ledger/internal/notification_worker/consumer"
	"github.com/fraud-screening-ledger/internal/notification_worker/mailer"
	"github.com/fraud-screening-ledger/internal/platform/messaging/consumers"
	"github.com/fraud-screening-ledger/internal/platform/messaging/producers"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("notification_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		fmt.Printf("Invalid worker configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Notification Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	// A nil *DLQProducer must not become a non-nil interface
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.Mail, log.With("component", "mailer"))
	handler := consumer.NewNotificationEventHandler(log, smtpMailer, deadLetters)

	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.NotificationTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, handler.HandleMessage); err != nil {
		log.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case <-kafkaConsumer.Done():
		log.Error("Kafka consumer stopped unexpectedly")
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	select {
	case <-kafkaConsumer.Done():
		log.Info("Kafka consumer stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	var steps []shutdownStep
	if dlqProducer != nil {
		steps = append(steps, shutdownStep{name: "DLQ Kafka producer", close: dlqProducer.Close})
	}
	steps = append(steps, shutdownStep{name: "Kafka consumer", close: kafkaConsumer.Close})

	if err := runShutdown(log, steps); err != nil {
		log.Error("Notification Worker shutdown completed with errors", "error", err)
		os.Exit(1)
	}
	log.Info("Notification Worker shutdown completed successfully")
}

// shutdownStep closes one resource during shutdown
type shutdownStep struct {
	name  string
	close func() error
}

// runShutdown runs every step even after a failure and joins the errors
func runShutdown(log *slog.Logger, steps []shutdownStep) error {
	var errs []error
	for _, step := range steps {
		if err := step.close(); err != nil {
			log.Error("Error closing "+step.name, "error", err)
			errs = append(errs, fmt.Errorf("failed to close %s: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}
