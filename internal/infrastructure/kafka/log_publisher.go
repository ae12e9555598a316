package kafka

import (
	"context"
	"log/slog"

	"github.com/bibbank/debt-service/internal/domain/event"
	"github.com/bibbank/debt-service/internal/domain/port"
)

// LogEventPublisher writes events to the log instead of a broker. It is wired
// when no Kafka brokers are configured.
type LogEventPublisher struct {
	logger *slog.Logger
}

var _ port.EventPublisher = (*LogEventPublisher)(nil)

// NewLogEventPublisher creates a log-only publisher.
func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

// Publish logs each event at info level.
func (p *LogEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
			"owner_id", evt.OwnerID(),
		)
	}
	return nil
}
