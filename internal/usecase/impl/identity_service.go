// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "shorts/internal/delivery/context"
	"shorts/internal/domain/entity"
	"shorts/internal/domain/repository"
	"shorts/internal/usecase"

	"github.com/pkg/errors"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	identities repository.UserIdentityRepository
	logger     *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(
	identities repository.UserIdentityRepository,
	logger *slog.Logger,
) usecase.IdentityUsecase {
	return &identityService{
		identities: identities,
		logger:     logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordSession upserts the identity record behind a freshly established
// session. Sessions without a refresh credential are skipped: there is
// nothing for the downstream processor to use, and the session remains
// valid for display regardless.
func (srv *identityService) RecordSession(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.New("nil session")
	}

	if !session.HasRefreshToken() {
		srv.log(ctx).Debug("Session carries no refresh token, skipping identity write",
			slog.Any("user_id", session.UserID))

		return nil
	}

	identity := &entity.UserIdentity{
		ID:           session.UserID,
		Email:        session.Email,
		RefreshToken: session.RefreshToken,
	}

	if err := srv.identities.Upsert(ctx, identity); err != nil {
		srv.log(ctx).Error("Failed to upsert user identity",
			slog.Any("error", err), slog.Any("user_id", session.UserID))

		return errors.Wrap(err, "failed to upsert user identity")
	}

	srv.log(ctx).Debug("Recorded user identity", slog.Any("user_id", session.UserID))

	return nil
}
