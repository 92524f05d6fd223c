package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/constants"
	"beacon/internal/domain/entity"
	"beacon/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDetachedClient builds a client without a socket; frames stay in its send buffer.
func newDetachedClient(id, userID string, buffer int) *Client {
	connection := entity.NewConnection(id, time.Now())
	connection.Authenticate(userID)
	connection.Activate()

	return newClient(nil, connection, ClientOptions{SendBuffer: buffer}, newDiscardLogger())
}

func drain(client *Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case frame, ok := <-client.send:
			if !ok {
				return frames
			}
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	a1 := newDetachedClient("c1", "alice", 4)
	a2 := newDetachedClient("c2", "alice", 4)
	b1 := newDetachedClient("c3", "bob", 4)

	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b1)

	assert.Equal(t, 3, hub.Count())
	assert.Equal(t, 2, hub.UserConnections("alice"))
	assert.Equal(t, 1, hub.UserConnections("bob"))

	hub.Unregister(a1)
	hub.Unregister(a1)
	assert.Equal(t, 1, hub.UserConnections("alice"))

	hub.Unregister(a2)
	assert.Equal(t, 0, hub.UserConnections("alice"))
	assert.Equal(t, 1, hub.Count())
}

func TestHub_SendToUserReachesEveryConnection(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	a1 := newDetachedClient("c1", "alice", 4)
	a2 := newDetachedClient("c2", "alice", 4)
	b1 := newDetachedClient("c3", "bob", 4)
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b1)

	sent := hub.SendToUser("alice", []byte(`{"event":"x"}`))

	assert.Equal(t, 2, sent)
	assert.Len(t, drain(a1), 1)
	assert.Len(t, drain(a2), 1)
	assert.Empty(t, drain(b1))
	assert.Equal(t, 0, hub.SendToUser("nobody", []byte(`{}`)))
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	a1 := newDetachedClient("c1", "alice", 4)
	b1 := newDetachedClient("c2", "bob", 4)
	hub.Register(a1)
	hub.Register(b1)

	assert.Equal(t, 2, hub.Broadcast([]byte(`{"event":"x"}`)))
	assert.Len(t, drain(a1), 1)
	assert.Len(t, drain(b1), 1)
}

func TestHub_SlowClientIsClosed(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	slow := newDetachedClient("c1", "alice", 1)
	hub.Register(slow)

	assert.Equal(t, 1, hub.SendToUser("alice", []byte(`1`)))
	assert.Equal(t, 0, hub.SendToUser("alice", []byte(`2`)))

	assert.Equal(t, entity.ConnectionClosed, slow.connection.State())
	assert.False(t, slow.Enqueue([]byte(`3`)))
}

func TestHub_HandleEnvelope(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	alice := newDetachedClient("c1", "alice", 4)
	bob := newDetachedClient("c2", "bob", 4)
	hub.Register(alice)
	hub.Register(bob)

	hub.HandleEnvelope(context.Background(), &service.DeliveryEnvelope{
		RequestID: "req-1",
		UserID:    "alice",
		Event:     constants.EventNotificationReceived,
		Payload:   json.RawMessage(`{"id":"n1"}`),
	})

	frames := drain(alice)
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"event":"notification_received","data":{"id":"n1"}}`, string(frames[0]))
	assert.Empty(t, drain(bob))

	hub.HandleEnvelope(context.Background(), &service.DeliveryEnvelope{
		Broadcast: true,
		Event:     constants.EventNotificationReceived,
		Payload:   json.RawMessage(`{"id":"n2"}`),
	})
	assert.Len(t, drain(alice), 1)
	assert.Len(t, drain(bob), 1)
}

func TestHub_HandleEnvelopeKeepsRequestIDOnContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctxLogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := deliverycontext.WithLogger(context.Background(), ctxLogger.With(slog.String("listener", "bus")))

	hub := NewHub(newDiscardLogger())
	hub.HandleEnvelope(ctx, &service.DeliveryEnvelope{
		RequestID: "req-42",
		UserID:    "nobody",
		Event:     constants.EventNotificationReceived,
		Payload:   json.RawMessage(`{"id":"n1"}`),
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "bus", line["listener"])
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub(newDiscardLogger())
	a := newDetachedClient("c1", "alice", 4)
	b := newDetachedClient("c2", "bob", 4)
	hub.Register(a)
	hub.Register(b)

	hub.CloseAll()

	assert.Equal(t, entity.ConnectionClosed, a.connection.State())
	assert.Equal(t, entity.ConnectionClosed, b.connection.State())
	// Closing twice is safe
	a.Close()
}
