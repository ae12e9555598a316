package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/port"
	pkgkafka "github.com/bibbank/debt-service/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing events to Kafka.
// Events are keyed by debt ID so each debt's events stay ordered.
type KafkaEventPublisher struct {
	producer MessageProducer
	topic    string
	routes   map[string]string
	logger   *slog.Logger
}

var _ port.EventPublisher = (*KafkaEventPublisher)(nil)

// NewKafkaEventPublisher creates a publisher writing to topic. routes maps
// event types to dedicated topics and may be nil.
func NewKafkaEventPublisher(producer MessageProducer, topic string, routes map[string]string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		routes:   routes,
		logger:   logger,
	}
}

// Publish serialises and sends domain events to Kafka, one write per topic.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	byTopic := make(map[string][]pkgkafka.Message)
	var order []string

	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		topic := p.topicFor(evt.EventType())
		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"owner_id", evt.OwnerID(),
			"topic", topic,
			"payload_size", len(payload),
		)

		if _, seen := byTopic[topic]; !seen {
			order = append(order, topic)
		}
		byTopic[topic] = append(byTopic[topic], pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":     evt.EventType(),
				"event_id":       evt.EventID(),
				"owner_id":       evt.OwnerID(),
				"aggregate_type": evt.AggregateType(),
			},
		})
	}

	for _, topic := range order {
		if err := p.producer.Publish(ctx, topic, byTopic[topic]...); err != nil {
			return fmt.Errorf("failed to publish events to topic %s: %w", topic, err)
		}
	}
	return nil
}

func (p *KafkaEventPublisher) topicFor(eventType string) string {
	if t, ok := p.routes[eventType]; ok && t != "" {
		return t
	}
	return p.topic
}
