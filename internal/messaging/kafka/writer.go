package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the relay and sinks use.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// MessageReader is the subset of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NewReader builds a consumer-group reader with manual commits.
func NewReader(broker, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        groupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// Message converts an outbox row to the Kafka record both the relay and
// the direct sink publish. The key is the aggregate id so events for one
// leave stay ordered within a partition.
func (e OutboxEvent) Message() kafkago.Message {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
		{Key: "aggregate_type", Value: []byte(e.AggregateType)},
		{Key: "outbox_id", Value: []byte(e.ID)},
	}
	if e.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(e.RequestID)})
	}
	return kafkago.Message{
		Topic:   e.Topic,
		Key:     []byte(e.AggregateID),
		Value:   e.Payload,
		Headers: headers,
	}
}
