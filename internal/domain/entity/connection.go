package entity

import (
	"sync"
	"time"
)

// ConnectionState tracks a transport connection through its lifecycle.
type ConnectionState string

const (
	ConnectionConnecting    ConnectionState = "CONNECTING"
	ConnectionAuthenticated ConnectionState = "AUTHENTICATED"
	ConnectionActive        ConnectionState = "ACTIVE"
	ConnectionClosed        ConnectionState = "CLOSED"
)

// Connection is a live client connection held by one gateway instance.
type Connection struct {
	ID          string    `json:"connectionId"`
	UserID      string    `json:"userId"`
	ConnectedAt time.Time `json:"connectedAt"`

	mu           sync.RWMutex
	state        ConnectionState
	lastActivity time.Time
}

// NewConnection creates a connection in the CONNECTING state.
func NewConnection(id string, now time.Time) *Connection {
	return &Connection{
		ID:           id,
		ConnectedAt:  now,
		state:        ConnectionConnecting,
		lastActivity: now,
	}
}

// Authenticate binds the verified user and moves to AUTHENTICATED.
func (c *Connection) Authenticate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ConnectionConnecting {
		return
	}
	c.UserID = userID
	c.state = ConnectionAuthenticated
}

// Activate moves an authenticated connection to ACTIVE.
func (c *Connection) Activate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ConnectionAuthenticated {
		return false
	}
	c.state = ConnectionActive

	return true
}

// Close is terminal and may be called from any state.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = ConnectionClosed
}

func (c *Connection) State() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

func (c *Connection) IsActive() bool {
	return c.State() == ConnectionActive
}

// Touch records client activity.
func (c *Connection) Touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActivity = now
}

func (c *Connection) LastActivity() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastActivity
}
