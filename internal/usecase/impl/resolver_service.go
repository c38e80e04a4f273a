package impl

import (
	"context"
	"log/slog"
	"time"

	"shorts/config"
	deliverycontext "shorts/internal/delivery/context"
	"shorts/internal/domain/entity"
	domainerrors "shorts/internal/domain/errors"
	"shorts/internal/domain/service"
	"shorts/internal/usecase"

	"github.com/pkg/errors"
)

// resolverService implements the SessionResolverUsecase interface.
type resolverService struct {
	provider       service.AuthProvider
	identity       usecase.IdentityUsecase
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// NewResolverService is the constructor for resolverService.
func NewResolverService(
	cfg *config.Config,
	provider service.AuthProvider,
	identity usecase.IdentityUsecase,
	logger *slog.Logger,
) usecase.SessionResolverUsecase {
	var timeout time.Duration
	if cfg.Auth != nil {
		timeout = cfg.Auth.ResolveTimeout
	}

	return &resolverService{
		provider:       provider,
		identity:       identity,
		resolveTimeout: timeout,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *resolverService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve runs the resolution protocol in order, stopping at first success.
// Every success branch records the identity before returning, so resolution
// performs exactly one upsert and reaches exactly one terminal outcome.
func (srv *resolverService) Resolve(ctx context.Context, fragment string) (*usecase.ResolveOutput, error) {
	// Step 1: fragment extraction. A malformed fragment is treated as "no
	// artifacts found" and falls through silently.
	var failure string
	if artifacts, ok := entity.ParseFragment(fragment); ok {
		session, err := srv.provider.EstablishSession(ctx, artifacts.AccessToken, artifacts.RefreshToken)
		if err == nil && session != nil {
			srv.log(ctx).Info("Session established from redirect artifacts",
				slog.Any("user_id", session.UserID))

			// The explicit establishment call can leave provider-internal
			// caches in a state only a full document reload picks up.
			return srv.succeed(ctx, session, true), nil
		}

		// The provider rejected valid-looking credentials. Record a
		// user-visible failure and continue to step 2 as a safety net only.
		failure = domainerrors.ErrSessionRejected.Message()
		srv.log(ctx).Warn("Provider rejected redirect artifacts", slog.Any("error", err))
	}

	// Step 2: cached-session check. Covers the provider's own redirect
	// handling having consumed the fragment before this code ran.
	session, err := srv.provider.CurrentSession(ctx)
	if err != nil {
		srv.log(ctx).Warn("Cached-session query failed", slog.Any("error", err))
	}
	if session != nil {
		srv.log(ctx).Info("Resolved from cached session", slog.Any("user_id", session.UserID))

		return srv.succeed(ctx, session, false), nil
	}

	// Step 3: change-feed fallback.
	return srv.awaitSessionChange(ctx, failure)
}

// succeed records the identity and builds the authenticated outcome. The
// upsert always happens before the navigation outcome is handed back, and
// its failure never blocks the login flow.
func (srv *resolverService) succeed(ctx context.Context, session *entity.Session, hardReload bool) *usecase.ResolveOutput {
	if err := srv.identity.RecordSession(ctx, session); err != nil {
		srv.log(ctx).Error("Identity persistence failed, continuing to dashboard",
			slog.Any("error", err), slog.Any("user_id", session.UserID))
	}

	return &usecase.ResolveOutput{
		Target:     usecase.TargetDashboard,
		HardReload: hardReload,
		Session:    session,
	}
}

// awaitSessionChange registers a session-change listener and waits for the
// first notification carrying a session. The listener is always
// unregistered before returning: on success, on the configured timeout, and
// on ctx teardown.
func (srv *resolverService) awaitSessionChange(ctx context.Context, failure string) (*usecase.ResolveOutput, error) {
	sessions := make(chan *entity.Session, 1)
	unsubscribe := srv.provider.OnSessionChange(func(_ service.AuthChangeEvent, session *entity.Session) {
		if session == nil {
			return
		}
		select {
		case sessions <- session:
		default:
		}
	})
	defer unsubscribe()

	var expired <-chan time.Time
	if srv.resolveTimeout > 0 {
		timer := time.NewTimer(srv.resolveTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case session := <-sessions:
		srv.log(ctx).Info("Resolved from session-change notification",
			slog.Any("user_id", session.UserID))

		return srv.succeed(ctx, session, false), nil

	case <-expired:
		srv.log(ctx).Warn("Session resolution timed out",
			slog.Duration("timeout", srv.resolveTimeout))
		if failure == "" {
			failure = domainerrors.ErrAuthTimeout.Message()
		}

		return &usecase.ResolveOutput{Target: usecase.TargetLanding, FailureMessage: failure}, nil

	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "resolution torn down before a session arrived")
	}
}
