package app

import (
	"context"
	"fmt"

	"leave-service/internal/messaging/kafka"
	"leave-service/internal/messaging/kafka/producer"
	"leave-service/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox_events to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		producer.DefaultPollInterval,
	)

	logger.Info("worker shutting down")
	return nil
}
