package service

import "context"

// Verification is the outcome of checking a bearer credential.
type Verification struct {
	Valid  bool
	UserID string
	Roles  []string
}

// TokenVerifier checks credentials issued by the external auth collaborator.
// A returned error means the verifier itself could not be reached; an invalid
// token is reported through Verification.Valid.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Verification, error)
}
