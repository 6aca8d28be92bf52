// Package identity verifies bearer tokens issued by the identity provider and
// returns the external identity (the auxiliar user_id) they carry.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for missing, malformed, expired or rejected tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified subject of a token.
type Identity struct {
	ExternalID string
	Email      string
}

// Verifier checks a bearer token.
type Verifier interface {
	VerifyIdentity(ctx context.Context, token string) (*Identity, error)
}
