// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"shorts/config"
	"shorts/internal/domain/service"
)

// jwtService verifies provider-issued access tokens. The provider signs
// them HS256 with a shared secret, so no call to the provider is needed.
type jwtService struct {
	secret string
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Provider == nil || cfg.Provider.JWTSecret == "" {
		return nil, errors.New("provider jwt secret must be provided")
	}

	return &jwtService{secret: cfg.Provider.JWTSecret}, nil
}

// ValidateAccessToken checks the signature and registered claims of an
// access token and extracts the user id and email.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse access token")
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(err, "access token has no subject")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, errors.Wrap(err, "access token subject is not a user id")
	}

	email, _ := claims["email"].(string)

	return &service.AccessClaims{
		UserID: userID,
		Email:  email,
	}, nil
}
