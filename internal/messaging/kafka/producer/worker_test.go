package producer_test

import (
	"context"
	"errors"
	"testing"

	"leave-service/internal/messaging/kafka"
	"leave-service/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	listErr error
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) Enqueue(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepository) ListDue(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, f.listErr
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	failFor  map[string]bool
	messages []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if w.failFor[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func headerValue(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("sends and marks each event", func(t *testing.T) {
		repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
			{ID: "o1", RequestID: "req-1", AggregateType: "leave", AggregateID: "l1", EventType: "leave.created", Topic: "hr.leave.lifecycle.v1", Payload: []byte("{}")},
			{ID: "o2", AggregateType: "leave", AggregateID: "l2", EventType: "leave.approved", Topic: "hr.leave.lifecycle.v1", Payload: []byte("{}")},
		}}
		writer := &fakeWriter{}

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Equal(t, []string{"o1", "o2"}, repo.sent)
		assert.Len(t, writer.messages, 2)
		assert.Equal(t, "leave.created", headerValue(writer.messages[0], "event_type"))
		assert.Equal(t, "req-1", headerValue(writer.messages[0], "request_id"))
		assert.Equal(t, "", headerValue(writer.messages[1], "request_id"))
	})

	t.Run("publish failure marks failed and continues", func(t *testing.T) {
		repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
			{ID: "o1", AggregateID: "l1", Topic: "t", Payload: []byte("{}")},
			{ID: "o2", AggregateID: "l2", Topic: "t", Payload: []byte("{}")},
		}}
		writer := &fakeWriter{failFor: map[string]bool{"l1": true}}

		sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, []string{"o2"}, repo.sent)
		assert.Equal(t, "broker unavailable", repo.failed["o1"])
	})

	t.Run("list error is returned", func(t *testing.T) {
		repo := &fakeOutboxRepository{listErr: errors.New("db down")}

		_, err := producer.ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop())

		assert.Error(t, err)
	})
}
