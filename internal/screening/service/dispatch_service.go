package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fraud-screening-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// DispatchConfig bounds asynchronous notification delivery
type DispatchConfig struct {
	Size    int           // maximum concurrent deliveries
	Timeout time.Duration // per-delivery deadline
}

// AsyncNotifier implements Notifier by handing events to a worker pool.
// Notify returns as soon as the event is queued; delivery failures are logged.
type AsyncNotifier struct {
	next    Notifier
	pool    *ants.Pool
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewAsyncNotifier(next Notifier, config DispatchConfig, logger *slog.Logger) (*AsyncNotifier, error) {
	// Bounded and non-blocking: a saturated pool rejects instead of stalling the workflow
	pool, err := ants.NewPool(config.Size, ants.WithPreAlloc(true), ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification pool: %w", err)
	}

	return &AsyncNotifier{
		next:    next,
		pool:    pool,
		timeout: config.Timeout,
		logger:  logger,
	}, nil
}

// Notify submits the event to the pool. It fails only when the event could not be queued.
func (s *AsyncNotifier) Notify(ctx context.Context, event *shared.NotificationEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	// Copy the event to avoid data races with the caller
	eventCopy := *event
	// Delivery outlives the request that triggered it
	deliveryCtx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	err := s.pool.Submit(func() {
		defer s.wg.Done()

		dctx, cancel := context.WithTimeout(deliveryCtx, s.timeout)
		defer cancel()

		if err := s.next.Notify(dctx, &eventCopy); err != nil {
			logger.Error("Notification delivery failed",
				"event_id", eventCopy.EventID.String(),
				"user_id", eventCopy.UserID,
				"error", shared.NotificationError{Kind: eventCopy.Kind, Err: err},
			)
			return
		}
		logger.Debug("Notification delivered", "event_id", eventCopy.EventID.String(), "kind", eventCopy.Kind)
	})
	if err != nil {
		s.wg.Done()
		logger.Error("Failed to submit notification to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to queue %s notification: %w", event.Kind, err)
	}
	return nil
}

// Wait blocks until every queued delivery has finished
func (s *AsyncNotifier) Wait() {
	s.wg.Wait()
}

// Shutdown drains queued deliveries and releases the pool
func (s *AsyncNotifier) Shutdown() {
	s.logger.Info("Shutting down notification pool", "running_workers", s.pool.Running())
	s.Wait()
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *AsyncNotifier) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *AsyncNotifier) Capacity() int {
	return s.pool.Cap()
}
