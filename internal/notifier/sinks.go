package notifier

import (
	"context"
	"strconv"

	"leave-service/internal/audit"
	"leave-service/internal/events"
	"leave-service/internal/messaging/kafka"
)

// OutboxSink stores events in outbox_events for the relay worker.
type OutboxSink struct {
	repo kafka.OutboxRepository
}

func NewOutboxSink(repo kafka.OutboxRepository) *OutboxSink {
	return &OutboxSink{repo: repo}
}

func (s *OutboxSink) Name() string { return "outbox" }

func (s *OutboxSink) Deliver(ctx context.Context, event events.LeaveEvent) error {
	out, err := kafka.NewLeaveOutboxEvent(event)
	if err != nil {
		return err
	}
	return s.repo.Enqueue(ctx, out)
}

// KafkaSink publishes straight to the leave lifecycle topic.
type KafkaSink struct {
	writer kafka.MessageWriter
}

func NewKafkaSink(writer kafka.MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, event events.LeaveEvent) error {
	out, err := kafka.NewLeaveOutboxEvent(event)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, out.Message())
}

// AuditSink writes the event to the audit log in-process.
type AuditSink struct {
	auditLogger audit.AuditLogger
}

func NewAuditSink(auditLogger audit.AuditLogger) *AuditSink {
	return &AuditSink{auditLogger: auditLogger}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Deliver(ctx context.Context, event events.LeaveEvent) error {
	actorID, _ := event.Payload["actor_id"].(string)
	s.auditLogger.Log(ctx, audit.AuditLog{
		Action:   event.EventType,
		ActorID:  actorID,
		EntityID: event.LeaveID,
		Message:  "leave " + event.EventType,
		Meta: map[string]any{
			"employee_id": strconv.FormatInt(event.EmployeeID, 10),
			"request_id":  event.RequestID,
			"payload":     event.Payload,
		},
	})
	return nil
}
