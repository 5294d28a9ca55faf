// Package kafka publishes recorded events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/messaging"
)

// Header keys set on every message.
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderStreamVersion = "stream_version"
)

// DefaultTopic receives events when no topic is configured.
const DefaultTopic = "storefront.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Publisher writes one message per event, keyed by stream id so a stream's
// events land on one partition in order.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a publisher for brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	var addrs []string
	for _, broker := range brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			addrs = append(addrs, broker)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	return &Publisher{writer: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		AllowAutoTopicCreation: true,
	}}, nil
}

// Publish writes events in one batch.
func (p *Publisher) Publish(ctx context.Context, events []event.Recorded) error {
	if len(events) == 0 {
		return nil
	}
	if p == nil || p.writer == nil {
		return fmt.Errorf("kafka publisher not initialized")
	}
	msgs, err := Messages(events)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Messages converts recorded events into Kafka messages.
func Messages(events []event.Recorded) ([]kafkaGo.Message, error) {
	msgs := make([]kafkaGo.Message, 0, len(events))
	for _, rec := range events {
		payload, err := messaging.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal event %s: %w", rec.ID, err)
		}
		msgs = append(msgs, kafkaGo.Message{
			Key:   []byte(rec.StreamID),
			Value: payload,
			Headers: []kafkaGo.Header{
				{Key: HeaderEventID, Value: []byte(rec.ID)},
				{Key: HeaderEventType, Value: []byte(rec.Type)},
				{Key: HeaderStreamVersion, Value: []byte(strconv.FormatUint(rec.StreamVersion, 10))},
			},
		})
	}
	return msgs, nil
}
