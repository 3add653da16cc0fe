package consumer

import (
	"context"
	"encoding/json"
	"strconv"

	"leave-service/internal/audit"
	"leave-service/internal/events"
	"leave-service/internal/messaging/kafka"

	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle records every leave lifecycle event in the audit trail.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader kafka.MessageReader,
	auditLogger audit.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.EventType == "" {
			log.Error("decode leave event failed", zap.Error(err), zap.Int64("offset", msg.Offset))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		actorID, _ := event.Payload["actor_id"].(string)
		auditLogger.Log(ctx, audit.AuditLog{
			Action:   event.EventType,
			ActorID:  actorID,
			EntityID: event.LeaveID,
			Message:  "leave " + event.EventType,
			Meta: map[string]any{
				"employee_id": strconv.FormatInt(event.EmployeeID, 10),
				"request_id":  event.RequestID,
				"occurred_at": event.Timestamp,
				"payload":     event.Payload,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("leave event audited",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
	}
}
