package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leave-service/internal/events"
	"leave-service/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewLeaveOutboxEvent(t *testing.T) {
	ev := events.LeaveEvent{
		EventType:  events.LeaveApproved,
		LeaveID:    "7f0c1d7e-1111-4c8a-9f0e-0a0b0c0d0e0f",
		EmployeeID: 12345,
		Timestamp:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		RequestID:  "req-1",
		Payload:    map[string]any{"approved_by": 1},
	}

	out, err := kafka.NewLeaveOutboxEvent(ev)

	assert.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, kafka.AggregateTypeLeave, out.AggregateType)
	assert.Equal(t, ev.LeaveID, out.AggregateID)
	assert.Equal(t, events.LeaveLifecycleTopic, out.Topic)
	assert.Equal(t, kafka.OutboxStatusPending, out.Status)
	assert.NoError(t, kafka.ValidateOutboxEvent(out))

	var decoded events.LeaveEvent
	assert.NoError(t, json.Unmarshal(out.Payload, &decoded))
	assert.Equal(t, ev.LeaveID, decoded.LeaveID)
	assert.Equal(t, int64(12345), decoded.EmployeeID)
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	missingID := valid
	missingID.ID = ""
	assert.Error(t, kafka.ValidateOutboxEvent(missingID))

	missingPayload := valid
	missingPayload.Payload = nil
	assert.Error(t, kafka.ValidateOutboxEvent(missingPayload))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueue", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := kafka.OutboxEvent{
			ID: "id-1", RequestID: "req-1", AggregateType: "leave", AggregateID: "leave-1",
			EventType: events.LeaveCreated, Topic: events.LeaveLifecycleTopic,
			Payload: []byte(`{"event_type":"leave.created"}`), Status: kafka.OutboxStatusPending,
		}
		mock.ExpectExec(`INSERT INTO outbox_events`).
			WithArgs("id-1", "req-1", "leave", "leave-1", events.LeaveCreated, events.LeaveLifecycleTopic, event.Payload, kafka.OutboxStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, kafka.NewOutboxRepository(db).Enqueue(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("enqueue rejects invalid event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		assert.Error(t, kafka.NewOutboxRepository(db).Enqueue(ctx, kafka.OutboxEvent{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list due", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`FROM outbox_events`).
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
			}).AddRow("id-1", "req-1", "leave", "leave-1", events.LeaveCreated, events.LeaveLifecycleTopic, []byte("{}"), kafka.OutboxStatusFailed, 2, now))

		got, err := kafka.NewOutboxRepository(db).ListDue(ctx, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "req-1", got[0].RequestID)
		assert.Equal(t, 2, got[0].RetryCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark failed parks after max retries", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE outbox_events`).
			WithArgs("id-1", kafka.OutboxStatusFailed, "broker down", kafka.MaxOutboxRetries, kafka.OutboxStatusDead).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(ctx, "id-1", "broker down"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
