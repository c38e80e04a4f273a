package usecase

import (
	"context"

	"shorts/internal/domain/entity"

	"github.com/google/uuid"
)

// JobView is an always-current, per-user, reverse-chronological projection
// of the user's job records, kept consistent by the store's change feed.
// It must be closed when the dashboard is torn down.
type JobView interface {
	// UserID is the owner this view is scoped to.
	UserID() uuid.UUID

	// Jobs returns the most recently fetched snapshot, newest first.
	Jobs() []*entity.Job

	// Refresh re-runs the full fetch and replaces the snapshot.
	Refresh(ctx context.Context) error

	// Updates signals after every completed refresh. Consecutive refreshes
	// may coalesce into a single signal.
	Updates() <-chan struct{}

	// Close cancels the change-feed subscription. No store calls are made
	// on behalf of this view after Close returns.
	Close()
}

// SubmitJobInput carries a new job submission.
type SubmitJobInput struct {
	UserID   uuid.UUID
	VideoURL string `json:"video_url" validate:"required,url"`
}

// JobSyncUsecase is the dashboard's application service: authorization
// gate, initial load plus live sync, submission, and logout.
type JobSyncUsecase interface {
	// Open confirms a session exists, performs the initial full fetch, and
	// subscribes the returned view to the change feed. Without a session it
	// fails with domainerrors.ErrUnauthenticated: an authorization gate, not
	// a retry target.
	Open(ctx context.Context) (JobView, error)

	// OpenForUser is Open with an identity already verified elsewhere, e.g.
	// by the bearer-token middleware.
	OpenForUser(ctx context.Context, userID uuid.UUID) (JobView, error)

	// Submit inserts a job with status pending and announces it to the
	// downstream processor. Fire-once: no automatic retry on failure.
	Submit(ctx context.Context, input *SubmitJobInput) (*entity.Job, error)

	// Logout terminates the session with the provider. The returned target
	// is always the landing page.
	Logout(ctx context.Context) (NavigationTarget, error)
}
