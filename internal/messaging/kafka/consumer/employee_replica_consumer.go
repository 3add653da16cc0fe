package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leave-service/internal/employeeregistry"
	"leave-service/internal/events"
	"leave-service/internal/messaging/kafka"

	"go.uber.org/zap"
)

var (
	retryInitialBackoff = 500 * time.Millisecond
	retryMaxBackoff     = 30 * time.Second
)

type EmployeeReplica interface {
	Add(ctx context.Context, employeeID int64) error
}

// ConsumeEmployeeLifecycle copies employee_created ids into the local replica
// that backs the verifier fallback. The verification cache is left alone.
//
// Kafka commits are cumulative, so a message whose store write fails is
// retried in place and nothing after it is fetched until it succeeds.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader kafka.MessageReader,
	replica EmployeeReplica,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != "" && event.EventType != events.EventTypeEmployeeCreated {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EmployeeID <= 0 {
			log.Warn("employee_created event without id, skipping", zap.Int64("offset", msg.Offset))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := replicate(ctx, replica, event.EmployeeID, log); err != nil {
			if !errors.Is(err, employeeregistry.ErrAlreadyReplicated) {
				log.Info("employee lifecycle consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
				return
			}
			log.Warn("employee already replicated, skipping", zap.Int64("employee_id", event.EmployeeID))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("employee replicated from employee_created event",
			zap.Int64("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
		)
	}
}

// replicate retries Add with exponential backoff until it succeeds, reports
// ErrAlreadyReplicated, or ctx is done.
func replicate(ctx context.Context, replica EmployeeReplica, employeeID int64, log *zap.Logger) error {
	backoff := retryInitialBackoff
	for attempt := 1; ; attempt++ {
		err := replica.Add(ctx, employeeID)
		if err == nil || errors.Is(err, employeeregistry.ErrAlreadyReplicated) {
			return err
		}

		log.Error("replicate employee failed, retrying",
			zap.Int64("employee_id", employeeID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff = min(backoff*2, retryMaxBackoff)
	}
}
