package service

import "context"

// PresenceRegistry tracks which users have at least one live connection on any instance.
type PresenceRegistry interface {
	// AddConnection records a connection and re-arms the entry expiry.
	AddConnection(ctx context.Context, userID, connectionID string) error

	// RemoveConnection drops a connection; removing an unknown one is a no-op.
	RemoveConnection(ctx context.Context, userID, connectionID string) error

	// HasAny reports whether the user has at least one recorded connection.
	HasAny(ctx context.Context, userID string) (bool, error)

	// ListUsersWithPresence returns every user with a non-empty entry.
	ListUsersWithPresence(ctx context.Context) ([]string, error)

	// CountAll returns the total number of recorded connections.
	CountAll(ctx context.Context) (int64, error)
}
