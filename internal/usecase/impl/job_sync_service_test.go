package impl

import (
	"context"
	"testing"
	"time"

	"shorts/internal/domain/entity"
	domainerrors "shorts/internal/domain/errors"
	"shorts/internal/domain/service"
	"shorts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// jobSyncFixtures holds all test dependencies for job sync tests.
type jobSyncFixtures struct {
	service   usecase.JobSyncUsecase
	provider  *mockAuthProvider
	jobs      *mockJobRepository
	feed      *mockJobChangeFeed
	publisher *mockEventPublisher
}

func createTestJobSync(t *testing.T) jobSyncFixtures {
	t.Helper()

	provider := new(mockAuthProvider)
	jobs := new(mockJobRepository)
	feed := new(mockJobChangeFeed)
	publisher := new(mockEventPublisher)

	return jobSyncFixtures{
		service:   NewJobSyncService(provider, jobs, feed, publisher, testLogger()),
		provider:  provider,
		jobs:      jobs,
		feed:      feed,
		publisher: publisher,
	}
}

func jobFixture(userID uuid.UUID, url string, status entity.JobStatus, age time.Duration) *entity.Job {
	return &entity.Job{
		ID:        uuid.New(),
		UserID:    userID,
		VideoURL:  url,
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestJobSyncService_Open_NoSessionIsAuthorizationGate(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	fx.provider.On("CurrentSession", ctx).Return(nil, nil).Once()

	view, err := fx.service.Open(ctx)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
	fx.jobs.AssertNotCalled(t, "FindByUser", mock.Anything, mock.Anything)
	fx.feed.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobSyncService_Open_FetchesThenSubscribes(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	userID := uuid.New()
	list := []*entity.Job{
		jobFixture(userID, "https://example.com/f2", entity.StatusProcessing, time.Minute),
		jobFixture(userID, "https://example.com/f1", entity.StatusCompleted, time.Hour),
	}

	fx.provider.On("CurrentSession", ctx).
		Return(&entity.Session{AccessToken: "a", UserID: userID}, nil).Once()
	fx.jobs.On("FindByUser", ctx, userID).Return(list, nil).Once()
	// The subscription is scoped to the session's user, never another one.
	fx.feed.On("Subscribe", ctx, userID, mock.AnythingOfType("service.JobChangeHandler")).
		Return(func() {}, nil).Once()

	view, err := fx.service.Open(ctx)

	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, userID, view.UserID())
	got := view.Jobs()
	require.Len(t, got, 2)
	// Store order (newest first) is preserved untouched.
	assert.Equal(t, "https://example.com/f2", got[0].VideoURL)
	assert.Equal(t, "https://example.com/f1", got[1].VideoURL)
	fx.feed.AssertExpectations(t)
}

func TestJobSyncService_ChangeEventTriggersFullRefetch(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	userID := uuid.New()
	initial := []*entity.Job{jobFixture(userID, "https://example.com/f1", entity.StatusPending, time.Minute)}
	updated := []*entity.Job{
		jobFixture(userID, "https://example.com/f2", entity.StatusPending, 0),
		initial[0],
	}

	var handler service.JobChangeHandler
	fx.jobs.On("FindByUser", mock.Anything, userID).Return(initial, nil).Once()
	fx.jobs.On("FindByUser", mock.Anything, userID).Return(updated, nil).Once()
	fx.feed.On("Subscribe", ctx, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			handler = args.Get(2).(service.JobChangeHandler)
		}).
		Return(func() {}, nil).Once()

	view, err := fx.service.OpenForUser(ctx, userID)
	require.NoError(t, err)
	defer view.Close()

	// Drain the initial-load signal so the next one belongs to the event.
	select {
	case <-view.Updates():
	default:
	}

	handler(service.JobChangeEvent{Kind: service.JobChangeUpdate, UserID: userID})

	select {
	case <-view.Updates():
	case <-time.After(time.Second):
		t.Fatal("change event did not trigger a refetch")
	}

	got := view.Jobs()
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/f2", got[0].VideoURL)
	fx.jobs.AssertNumberOfCalls(t, "FindByUser", 2)
}

func TestJobSyncService_CloseStopsStoreCalls(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	userID := uuid.New()

	var handler service.JobChangeHandler
	unsubscribed := false
	fx.jobs.On("FindByUser", mock.Anything, userID).
		Return([]*entity.Job{}, nil)
	fx.feed.On("Subscribe", ctx, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			handler = args.Get(2).(service.JobChangeHandler)
		}).
		Return(func() { unsubscribed = true }, nil).Once()

	view, err := fx.service.OpenForUser(ctx, userID)
	require.NoError(t, err)

	view.Close()
	assert.True(t, unsubscribed, "teardown must cancel the subscription")

	// A straggler event delivered after teardown must not reach the store.
	handler(service.JobChangeEvent{Kind: service.JobChangeInsert, UserID: userID})
	fx.jobs.AssertNumberOfCalls(t, "FindByUser", 1)

	// Close is idempotent.
	view.Close()
}

func TestJobSyncService_Submit_InsertsPendingAndPublishes(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	userID := uuid.New()
	jobID := uuid.New()
	createdAt := time.Now()

	fx.jobs.On("Create", ctx, mock.MatchedBy(func(job *entity.Job) bool {
		return job.UserID == userID &&
			job.VideoURL == "https://example.com/f1" &&
			job.Status == entity.StatusPending
	})).Run(func(args mock.Arguments) {
		job := args.Get(1).(*entity.Job)
		job.ID = jobID
		job.CreatedAt = createdAt
	}).Return(nil).Once()

	fx.publisher.On("PublishJobQueued", ctx, mock.MatchedBy(func(event *service.JobQueuedEvent) bool {
		return event.JobID == jobID.String() &&
			event.UserID == userID.String() &&
			event.VideoURL == "https://example.com/f1"
	})).Return(nil).Once()

	job, err := fx.service.Submit(ctx, &usecase.SubmitJobInput{
		UserID:   userID,
		VideoURL: "https://example.com/f1",
	})

	require.NoError(t, err)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, entity.StatusPending, job.Status)
	assert.False(t, job.CreatedAt.Before(createdAt))
	fx.publisher.AssertExpectations(t)
}

func TestJobSyncService_Submit_EmptyURLBlockedBeforeStore(t *testing.T) {
	fx := createTestJobSync(t)

	for _, url := range []string{"", "   "} {
		job, err := fx.service.Submit(context.Background(), &usecase.SubmitJobInput{
			UserID:   uuid.New(),
			VideoURL: url,
		})

		require.Error(t, err)
		assert.Nil(t, job)
		assert.True(t, errors.Is(err, domainerrors.ErrEmptyVideoURL))
	}

	fx.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishJobQueued", mock.Anything, mock.Anything)
}

func TestJobSyncService_Submit_StoreFailureSurfacedNoRetry(t *testing.T) {
	fx := createTestJobSync(t)

	storeErr := errors.New("insert failed")
	fx.jobs.On("Create", mock.Anything, mock.Anything).Return(storeErr).Once()

	job, err := fx.service.Submit(context.Background(), &usecase.SubmitJobInput{
		UserID:   uuid.New(),
		VideoURL: "https://example.com/f1",
	})

	require.Error(t, err)
	assert.Nil(t, job)
	assert.True(t, errors.Is(err, storeErr))
	fx.jobs.AssertNumberOfCalls(t, "Create", 1)
	fx.publisher.AssertNotCalled(t, "PublishJobQueued", mock.Anything, mock.Anything)
}

func TestJobSyncService_Submit_PublishFailureDoesNotFailSubmit(t *testing.T) {
	fx := createTestJobSync(t)

	fx.jobs.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	fx.publisher.On("PublishJobQueued", mock.Anything, mock.Anything).
		Return(errors.New("broker down")).Once()

	job, err := fx.service.Submit(context.Background(), &usecase.SubmitJobInput{
		UserID:   uuid.New(),
		VideoURL: "https://example.com/f1",
	})

	require.NoError(t, err)
	assert.NotNil(t, job)
}

func TestJobSyncService_Logout(t *testing.T) {
	fx := createTestJobSync(t)

	ctx := context.Background()
	fx.provider.On("SignOut", ctx).Return(nil).Once()

	target, err := fx.service.Logout(ctx)

	require.NoError(t, err)
	assert.Equal(t, usecase.TargetLanding, target)
}

func TestJobSyncService_Logout_ProviderError(t *testing.T) {
	fx := createTestJobSync(t)

	fx.provider.On("SignOut", mock.Anything).Return(errors.New("network")).Once()

	target, err := fx.service.Logout(context.Background())

	require.Error(t, err)
	assert.Equal(t, usecase.TargetLanding, target)
}
