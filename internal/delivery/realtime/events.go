// Package realtime serves the WebSocket gateway and routes deliveries to local connections.
package realtime

import (
	"encoding/json"
	"time"

	"beacon/internal/domain/constants"

	"github.com/pkg/errors"
)

// Error codes sent in error events
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeNotAuthenticated       = "NOT_AUTHENTICATED"
	CodeNotFound               = "NOT_FOUND"
	CodeConnectionError        = "CONNECTION_ERROR"
	CodeMarkReadError          = "MARK_READ_ERROR"
)

// Frame is the wire format of every WebSocket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrorPayload is the data of an error event.
type ErrorPayload struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UserConnectedPayload is the data of a user_connected event.
type UserConnectedPayload struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

// MarkReadPayload is the data of mark_notification_read and notification_read events.
type MarkReadPayload struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId,omitempty"`
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, ok := data.(json.RawMessage)
	if !ok {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s payload", event)
		}
		raw = encoded
	}

	frame, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s frame", event)
	}

	return frame, nil
}

func encodeError(code, message string, now time.Time) []byte {
	frame, err := encodeFrame(constants.EventError, ErrorPayload{
		Code:      code,
		Message:   message,
		Timestamp: now.UTC(),
	})
	if err != nil {
		// ErrorPayload always encodes
		return []byte(`{"event":"error"}`)
	}

	return frame
}
