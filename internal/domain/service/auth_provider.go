// Package service defines the interfaces for external collaborators the
// application layer depends on: the identity provider, the job change feed,
// event publishing, and token verification.
package service

import (
	"context"

	"shorts/internal/domain/entity"
)

// AuthChangeEvent tags a provider-side session state transition.
type AuthChangeEvent string

const (
	AuthEventSignedIn       AuthChangeEvent = "SIGNED_IN"
	AuthEventSignedOut      AuthChangeEvent = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthChangeEvent = "TOKEN_REFRESHED"
)

// SessionChangeHandler receives every provider-side transition together
// with the session that resulted from it, or nil when the transition ended
// the session.
type SessionChangeHandler func(event AuthChangeEvent, session *entity.Session)

// AuthProvider is the identity provider as seen by this core. It is an
// injected dependency so tests can substitute a double; implementations
// serialize their own internal state.
type AuthProvider interface {
	// EstablishSession exchanges redirect artifacts for a session. An empty
	// refresh token is allowed. The provider caches the session on success.
	EstablishSession(ctx context.Context, accessToken, refreshToken string) (*entity.Session, error)

	// CurrentSession returns the currently cached session, or (nil, nil)
	// when the provider holds none. It covers the case where the provider's
	// own redirect handling already consumed the artifacts.
	CurrentSession(ctx context.Context) (*entity.Session, error)

	// OnSessionChange registers a listener for session state transitions.
	// The returned function unregisters it; callers must invoke it on
	// teardown to avoid a dangling subscription.
	OnSessionChange(handler SessionChangeHandler) (unsubscribe func())

	// SignOut terminates the session with the provider and clears the cache.
	SignOut(ctx context.Context) error
}
