package auth

import (
	"log/slog"

	"github.com/pkg/errors"

	"beacon/config"
	"beacon/internal/domain/constants"
	"beacon/internal/domain/service"
)

// NewTokenVerifier picks the verifier configured by auth.mode.
func NewTokenVerifier(cfg *config.Config, logger *slog.Logger) (service.TokenVerifier, error) {
	switch cfg.Auth.Mode {
	case "", constants.AuthModeJWT:
		logger.Info("Using local JWT token verifier")

		return NewJWTVerifier(cfg)
	case constants.AuthModeRemote:
		logger.Info("Using remote token verifier", slog.String("url", cfg.Auth.RemoteURL))

		return NewRemoteVerifier(cfg)
	default:
		return nil, errors.Errorf("unknown auth mode: %s", cfg.Auth.Mode)
	}
}
