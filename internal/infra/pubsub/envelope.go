package pubsub

import (
	"encoding/json"

	"beacon/internal/domain/service"

	"github.com/pkg/errors"
)

// ErrNoSubscribers is returned by Publish when no gateway instance is listening on the bus.
var ErrNoSubscribers = service.ErrNoReceivers

func encodeEnvelope(envelope *service.DeliveryEnvelope) ([]byte, error) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode delivery envelope")
	}

	return data, nil
}

func decodeEnvelope(data []byte) (*service.DeliveryEnvelope, error) {
	var envelope service.DeliveryEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode delivery envelope")
	}

	return &envelope, nil
}

func envelopeAttributes(envelope *service.DeliveryEnvelope) map[string]string {
	attributes := map[string]string{
		"event": envelope.Event,
	}
	if envelope.UserID != "" {
		attributes["user_id"] = envelope.UserID
	}
	if envelope.RequestID != "" {
		attributes["request_id"] = envelope.RequestID
	}

	return attributes
}
