package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	deliverycontext "shorts/internal/delivery/context"
	"shorts/internal/domain/entity"
	domainerrors "shorts/internal/domain/errors"
	"shorts/internal/domain/repository"
	"shorts/internal/domain/service"
	"shorts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// changeRefreshTimeout bounds the refetch a change-feed event triggers,
// which runs outside any request context.
const changeRefreshTimeout = 15 * time.Second

// jobSyncService implements the JobSyncUsecase interface.
type jobSyncService struct {
	provider  service.AuthProvider
	jobs      repository.JobRepository
	feed      service.JobChangeFeed
	publisher service.EventPublisher
	logger    *slog.Logger
}

// NewJobSyncService is the constructor for jobSyncService.
func NewJobSyncService(
	provider service.AuthProvider,
	jobs repository.JobRepository,
	feed service.JobChangeFeed,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.JobSyncUsecase {
	return &jobSyncService{
		provider:  provider,
		jobs:      jobs,
		feed:      feed,
		publisher: publisher,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *jobSyncService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Open gates on an existing session, then builds the live view. A missing
// session is a defined redirect to landing, not an error to retry.
func (srv *jobSyncService) Open(ctx context.Context) (usecase.JobView, error) {
	session, err := srv.provider.CurrentSession(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query current session")
	}
	if session == nil {
		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	return srv.OpenForUser(ctx, session.UserID)
}

// OpenForUser performs the initial full fetch and subscribes the view to
// the change feed scoped to the user.
func (srv *jobSyncService) OpenForUser(ctx context.Context, userID uuid.UUID) (usecase.JobView, error) {
	view := &jobView{
		userID:  userID,
		jobs:    srv.jobs,
		logger:  srv.logger,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	if err := view.Refresh(ctx); err != nil {
		return nil, errors.Wrap(err, "initial job fetch failed")
	}

	unsubscribe, err := srv.feed.Subscribe(ctx, userID, view.onChange)
	if err != nil {
		return nil, errors.Wrap(err, "failed to subscribe to job change feed")
	}
	view.unsubscribe = unsubscribe

	srv.log(ctx).Debug("Opened job view",
		slog.Any("user_id", userID), slog.Int("jobs", len(view.Jobs())))

	return view, nil
}

// Submit inserts a pending job and announces it to the downstream
// processor. An empty source URL is blocked before any store call.
func (srv *jobSyncService) Submit(ctx context.Context, input *usecase.SubmitJobInput) (*entity.Job, error) {
	if input == nil || strings.TrimSpace(input.VideoURL) == "" {
		return nil, errors.WithStack(domainerrors.ErrEmptyVideoURL)
	}

	job := &entity.Job{
		UserID:   input.UserID,
		VideoURL: input.VideoURL,
		Status:   entity.StatusPending,
	}

	if err := srv.jobs.Create(ctx, job); err != nil {
		srv.log(ctx).Error("Failed to insert job",
			slog.Any("error", err), slog.Any("user_id", input.UserID))

		return nil, errors.Wrap(err, "failed to insert job")
	}

	event := &service.JobQueuedEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		JobID:     job.ID.String(),
		UserID:    job.UserID.String(),
		VideoURL:  job.VideoURL,
	}
	if err := srv.publisher.PublishJobQueued(ctx, event); err != nil {
		// Publish failure does not fail the submit; the processor also picks
		// up pending rows on its own schedule.
		srv.log(ctx).Warn("Failed to publish job-queued event",
			slog.Any("error", err), slog.Any("job_id", job.ID))
	}

	srv.log(ctx).Info("Job queued",
		slog.Any("job_id", job.ID), slog.Any("user_id", job.UserID))

	return job, nil
}

// Logout terminates the session with the provider.
func (srv *jobSyncService) Logout(ctx context.Context) (usecase.NavigationTarget, error) {
	if err := srv.provider.SignOut(ctx); err != nil {
		return usecase.TargetLanding, errors.Wrap(err, "failed to sign out")
	}

	srv.log(ctx).Info("Signed out")

	return usecase.TargetLanding, nil
}

// jobView is the live per-user projection. The snapshot is a pure read
// projection: concurrent refreshes converge last-write-wins, so no locking
// beyond the snapshot mutex is needed.
type jobView struct {
	userID uuid.UUID
	jobs   repository.JobRepository
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot []*entity.Job

	updates     chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
	done        chan struct{}
}

// UserID is the owner this view is scoped to.
func (v *jobView) UserID() uuid.UUID {
	return v.userID
}

// Jobs returns the current snapshot, newest first.
func (v *jobView) Jobs() []*entity.Job {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return slices.Clone(v.snapshot)
}

// Refresh re-runs the full fetch and replaces the snapshot.
func (v *jobView) Refresh(ctx context.Context) error {
	jobs, err := v.jobs.FindByUser(ctx, v.userID)
	if err != nil {
		return errors.Wrap(err, "failed to fetch jobs")
	}

	v.mu.Lock()
	v.snapshot = jobs
	v.mu.Unlock()

	// Coalescing signal: a pending notification already covers this refresh.
	select {
	case v.updates <- struct{}{}:
	default:
	}

	return nil
}

// Updates signals after every completed refresh.
func (v *jobView) Updates() <-chan struct{} {
	return v.updates
}

// onChange is the change-feed handler: any event kind triggers a whole-list
// refresh, trading bandwidth for correctness.
func (v *jobView) onChange(event service.JobChangeEvent) {
	select {
	case <-v.done:
		return
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), changeRefreshTimeout)
	defer cancel()

	if err := v.Refresh(ctx); err != nil {
		v.logger.Warn("Change-triggered refresh failed",
			slog.Any("error", err),
			slog.Any("user_id", v.userID),
			slog.String("kind", string(event.Kind)))
	}
}

// Close cancels the change-feed subscription. After Close returns, the view
// makes no further store calls.
func (v *jobView) Close() {
	v.closeOnce.Do(func() {
		if v.unsubscribe != nil {
			v.unsubscribe()
		}
		close(v.done)
	})
}
