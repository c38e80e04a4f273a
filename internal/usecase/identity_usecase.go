package usecase

import (
	"context"

	"shorts/internal/domain/entity"
)

// IdentityUsecase idempotently records that a user has an active session
// whose refresh credential the downstream processor may use later.
type IdentityUsecase interface {
	// RecordSession upserts the identity record for the session's user. It
	// is a no-op when the session carries no refresh credential. The error
	// return exists for observability; callers on the login path treat
	// failure as non-fatal.
	RecordSession(ctx context.Context, session *entity.Session) error
}
