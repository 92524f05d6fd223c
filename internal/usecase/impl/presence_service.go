package impl

import (
	"context"

	"beacon/internal/domain/service"
	"beacon/internal/errors"
	"beacon/internal/usecase"
)

type presenceService struct {
	presence service.PresenceRegistry
}

// NewPresenceService creates a new presence service instance
func NewPresenceService(presence service.PresenceRegistry) usecase.PresenceUsecase {
	return &presenceService{
		presence: presence,
	}
}

func (s *presenceService) Snapshot(ctx context.Context) (*usecase.PresenceSnapshot, error) {
	users, err := s.presence.ListUsersWithPresence(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list online users")
	}

	connections, err := s.presence.CountAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count connections")
	}

	return &usecase.PresenceSnapshot{
		Users:           users,
		UserCount:       len(users),
		ConnectionCount: connections,
	}, nil
}
