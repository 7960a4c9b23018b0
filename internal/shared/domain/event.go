package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fact announced to subscribers after an operation completes.
type Event interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() Metadata
}

// Metadata carries tracing information alongside an event.
type Metadata struct {
	CorrelationID uuid.UUID
	CausationID   uuid.UUID
	UserID        uuid.UUID
}

// NewMetadata builds metadata for userID. A correlation ID that is not a UUID
// is dropped.
func NewMetadata(userID uuid.UUID, correlationID string) Metadata {
	meta := Metadata{UserID: userID}
	if id, err := uuid.Parse(correlationID); err == nil {
		meta.CorrelationID = id
	}
	return meta
}

// BaseEvent holds the identity fields shared by every event. Embed it and add
// exported payload fields.
type BaseEvent struct {
	eventID       uuid.UUID
	aggregateID   uuid.UUID
	aggregateType string
	routingKey    string
	occurredAt    time.Time
	metadata      Metadata
}

// NewBaseEvent stamps a new event at occurredAt, or at the current time when
// occurredAt is zero.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, routingKey string, occurredAt time.Time) BaseEvent {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return BaseEvent{
		eventID:       uuid.New(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		routingKey:    routingKey,
		occurredAt:    occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.eventID }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) RoutingKey() string     { return e.routingKey }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) Metadata() Metadata     { return e.metadata }

func (e *BaseEvent) SetMetadata(metadata Metadata) {
	e.metadata = metadata
}
