package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"beacon/config"
	"beacon/internal/domain/service"
)

// remoteVerifier asks an external auth service whether a token is valid.
type remoteVerifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewRemoteVerifier creates a verifier that POSTs tokens to cfg.Auth.RemoteURL.
func NewRemoteVerifier(cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.Auth == nil || cfg.Auth.RemoteURL == "" {
		return nil, errors.New("remote auth url must be provided")
	}

	return &remoteVerifier{
		url:     cfg.Auth.RemoteURL,
		timeout: cfg.Auth.Timeout,
		client:  &http.Client{},
	}, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid  bool     `json:"valid"`
	UserID string   `json:"userId"`
	Roles  []string `json:"roles"`
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (*service.Verification, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create verify request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach auth service")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &service.Verification{Valid: false}, nil
	default:
		respBody, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("auth service responded with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to decode verify response")
	}

	if !result.Valid || result.UserID == "" {
		return &service.Verification{Valid: false}, nil
	}

	return &service.Verification{
		Valid:  true,
		UserID: result.UserID,
		Roles:  result.Roles,
	}, nil
}
