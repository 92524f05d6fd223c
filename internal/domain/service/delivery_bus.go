package service

import (
	"context"
	"encoding/json"

	"beacon/internal/errors"
)

// ErrNoReceivers means the bus accepted nothing because no gateway instance is listening.
// Callers treat it like stale presence, not as a failed publish.
var ErrNoReceivers = errors.New("no gateway instance subscribed to the delivery bus")

// DeliveryEnvelope is one outbound event travelling between gateway instances.
// An empty UserID with Broadcast set addresses every connection.
type DeliveryEnvelope struct {
	RequestID string          `json:"request_id,omitempty"` // For distributed tracing
	UserID    string          `json:"user_id,omitempty"`
	Broadcast bool            `json:"broadcast,omitempty"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
}

// DeliveryHandler receives envelopes published by any instance.
type DeliveryHandler func(ctx context.Context, envelope *DeliveryEnvelope)

// DeliveryBus fans deliveries out to every gateway instance.
type DeliveryBus interface {
	// Publish hands an envelope to the bus; it returns once the bus accepted it.
	Publish(ctx context.Context, envelope *DeliveryEnvelope) error

	// Subscribe invokes handler for every envelope until ctx is cancelled.
	Subscribe(ctx context.Context, handler DeliveryHandler) error

	// Close releases any resources held by the bus
	Close() error
}
