package realtime

import (
	"log/slog"
	"sync"
	"time"

	"beacon/internal/domain/entity"

	"github.com/gorilla/websocket"
)

// ClientOptions holds per-connection timing and buffer limits.
type ClientOptions struct {
	WriteTimeout   time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	SendBuffer     int
	MaxMessageSize int64
}

// Client is one WebSocket connection with a buffered writer.
type Client struct {
	conn       *websocket.Conn
	connection *entity.Connection
	opts       ClientOptions
	logger     *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool

	// done is closed once the writer has released the socket
	done chan struct{}
}

func newClient(conn *websocket.Conn, connection *entity.Connection, opts ClientOptions, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		connection: connection,
		opts:       opts,
		logger:     logger,
		send:       make(chan []byte, opts.SendBuffer),
		done:       make(chan struct{}),
	}
}

// ID returns the connection ID
func (c *Client) ID() string {
	return c.connection.ID
}

// UserID returns the authenticated user, or empty before authentication
func (c *Client) UserID() string {
	return c.connection.UserID
}

// Enqueue queues frame for writing without blocking. A connection whose buffer is full
// is closed and reported as not accepting.
func (c *Client) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn("[Gateway] Send buffer full, closing slow connection",
			slog.String("connection_id", c.ID()),
		)
		c.closeLocked()

		return false
	}
}

// Close stops accepting frames; the writer flushes what is queued and closes the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.connection.Close()
	close(c.send)
}

// Done is closed after the socket has been released.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// writePump is the only goroutine writing to the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("[Gateway] Write failed", slog.String("connection_id", c.ID()), slog.Any("error", err))
				c.Close()

				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()

				return
			}
		}
	}
}
