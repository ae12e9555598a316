package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OwnerID() string
	OccurredAt() time.Time
}

// Metadata is the envelope shared by every event. It is serialized under the
// "metadata" key so that payload fields of the concrete event stay flat.
type Metadata struct {
	OccurredAt    time.Time `json:"occurred_at"`
	ID            string    `json:"event_id"`
	Type          string    `json:"event_type"`
	AggregateID   string    `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	OwnerID       string    `json:"owner_id"`
}

// BaseEvent provides a default implementation of DomainEvent.
type BaseEvent struct {
	Metadata Metadata `json:"metadata"`
}

// NewBaseEvent creates a BaseEvent with a generated id, stamped at the given time.
func NewBaseEvent(eventType, aggregateID, aggregateType, ownerID string, at time.Time) BaseEvent {
	return BaseEvent{Metadata: Metadata{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		OwnerID:       ownerID,
		OccurredAt:    at.UTC(),
	}}
}

func (e BaseEvent) EventID() string       { return e.Metadata.ID }
func (e BaseEvent) EventType() string     { return e.Metadata.Type }
func (e BaseEvent) AggregateID() string   { return e.Metadata.AggregateID }
func (e BaseEvent) AggregateType() string { return e.Metadata.AggregateType }
func (e BaseEvent) OwnerID() string       { return e.Metadata.OwnerID }
func (e BaseEvent) OccurredAt() time.Time { return e.Metadata.OccurredAt }
