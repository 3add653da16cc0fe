package app

import (
	"context"
	"fmt"
	"sync"

	"leave-service/internal/audit"
	"leave-service/internal/employeeregistry"
	"leave-service/internal/events"
	"leave-service/internal/messaging/kafka"
	"leave-service/internal/messaging/kafka/consumer"
	"leave-service/internal/shared/connection"

	"go.uber.org/zap"
)

const (
	leaveAuditGroupID      = "leave-service-audit"
	employeeReplicaGroupID = "leave-service-employee-replica"
)

// RunConsumer runs the leave audit and employee replica consumers until ctx
// is cancelled.
func RunConsumer(ctx context.Context, cfg Config) error {
	logger := zap.L().Named("app.consumer")

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

	replica := employeeregistry.NewReplicaStore(gormDB)
	auditLogger := audit.NewStdoutAuditLogger(logger)

	leaveReader := kafka.NewReader(cfg.KafkaBroker, events.LeaveLifecycleTopic, leaveAuditGroupID)
	defer leaveReader.Close()
	employeeReader := kafka.NewReader(cfg.KafkaBroker, events.EmployeeCreatedTopic, employeeReplicaGroupID)
	defer employeeReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveLifecycle(ctx, leaveReader, auditLogger, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, replica, logger)
	}()
	wg.Wait()

	logger.Info("consumer shutting down")
	return nil
}
