package service

import (
	"github.com/google/uuid"
)

// AccessClaims are the verified claims extracted from a provider-issued
// access token.
type AccessClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService verifies provider-issued access tokens. The provider signs
// them with a shared secret, so verification needs no network round-trip.
type TokenService interface {
	// ValidateAccessToken checks the signature and expiry of an access token
	// and returns its claims.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
}
