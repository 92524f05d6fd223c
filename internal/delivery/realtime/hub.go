package realtime

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "beacon/internal/delivery/context"
	"beacon/internal/domain/service"
)

// Hub is the table of connections held by this instance, grouped by user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	byUser  map[string]map[string]*Client
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byUser:  make(map[string]map[string]*Client),
		logger:  logger,
	}
}

// Register adds an authenticated client to its user's group.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID()] = client
	group, ok := h.byUser[client.UserID()]
	if !ok {
		group = make(map[string]*Client)
		h.byUser[client.UserID()] = group
	}
	group[client.ID()] = client
}

// Unregister removes the client; unknown clients are ignored.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client.ID())
	if group, ok := h.byUser[client.UserID()]; ok {
		delete(group, client.ID())
		if len(group) == 0 {
			delete(h.byUser, client.UserID())
		}
	}
}

// SendToUser queues frame on every local connection of userID and returns how many accepted it.
func (h *Hub) SendToUser(userID string, frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.byUser[userID] {
		if client.Enqueue(frame) {
			sent++
		}
	}

	return sent
}

// Broadcast queues frame on every local connection.
func (h *Hub) Broadcast(frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if client.Enqueue(frame) {
			sent++
		}
	}

	return sent
}

// Count returns the number of local connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// UserConnections returns the number of local connections of userID.
func (h *Hub) UserConnections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.byUser[userID])
}

// CloseAll closes every local connection; their handlers run the usual cleanup.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.Close()
	}
}

// HandleEnvelope writes an envelope received from the delivery bus to local connections.
func (h *Hub) HandleEnvelope(ctx context.Context, envelope *service.DeliveryEnvelope) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	if envelope.RequestID != "" {
		logger = logger.With(slog.String("request_id", envelope.RequestID))
	}

	frame, err := encodeFrame(envelope.Event, envelope.Payload)
	if err != nil {
		logger.Error("[Hub] Failed to encode frame", slog.Any("error", err))

		return
	}

	if envelope.Broadcast {
		sent := h.Broadcast(frame)
		logger.Debug("[Hub] Broadcast written", slog.String("event", envelope.Event), slog.Int("connections", sent))

		return
	}

	sent := h.SendToUser(envelope.UserID, frame)
	logger.Debug("[Hub] Delivery written",
		slog.String("event", envelope.Event),
		slog.String("user_id", envelope.UserID),
		slog.Int("connections", sent),
	)
}
