package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/shared/domain"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// NewEnvelope wraps a domain event for the wire. The event's exported fields
// become the payload.
func NewEnvelope(event domain.Event) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}

	meta := event.Metadata()
	envelope := &Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata: EventMetadata{
			UserID: meta.UserID,
		},
	}
	if meta.CorrelationID != uuid.Nil {
		envelope.Metadata.CorrelationID = meta.CorrelationID.String()
	}
	if meta.CausationID != uuid.Nil {
		envelope.Metadata.CausationID = meta.CausationID.String()
	}
	return envelope, nil
}

// PublishEvent serializes a domain event into an envelope and publishes it
// under the event's routing key.
func PublishEvent(ctx context.Context, publisher Publisher, event domain.Event) error {
	envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	if err := publisher.Publish(ctx, envelope.RoutingKey, body); err != nil {
		return fmt.Errorf("publish %s: %w", envelope.RoutingKey, err)
	}
	return nil
}
