package usecase

import "context"

// PresenceSnapshot summarises presence across all instances
type PresenceSnapshot struct {
	Users           []string `json:"users"`
	UserCount       int      `json:"userCount"`
	ConnectionCount int64    `json:"connectionCount"`
}

// PresenceUsecase exposes presence state for administration
type PresenceUsecase interface {
	Snapshot(ctx context.Context) (*PresenceSnapshot, error)
}
