package impl

import (
	"context"

	"shorts/internal/domain/entity"
	"shorts/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-rolled testify mocks for the interfaces the services depend on.

type mockAuthProvider struct {
	mock.Mock
}

func (m *mockAuthProvider) EstablishSession(ctx context.Context, accessToken, refreshToken string) (*entity.Session, error) {
	args := m.Called(ctx, accessToken, refreshToken)
	if session, ok := args.Get(0).(*entity.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthProvider) CurrentSession(ctx context.Context) (*entity.Session, error) {
	args := m.Called(ctx)
	if session, ok := args.Get(0).(*entity.Session); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthProvider) OnSessionChange(handler service.SessionChangeHandler) func() {
	args := m.Called(handler)

	return args.Get(0).(func())
}

func (m *mockAuthProvider) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockUserIdentityRepository struct {
	mock.Mock
}

func (m *mockUserIdentityRepository) Upsert(ctx context.Context, identity *entity.UserIdentity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *mockUserIdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserIdentity, error) {
	args := m.Called(ctx, id)
	if identity, ok := args.Get(0).(*entity.UserIdentity); ok {
		return identity, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) Create(ctx context.Context, job *entity.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Job, error) {
	args := m.Called(ctx, userID)
	if jobs, ok := args.Get(0).([]*entity.Job); ok {
		return jobs, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockJobChangeFeed struct {
	mock.Mock
}

func (m *mockJobChangeFeed) Subscribe(ctx context.Context, userID uuid.UUID, handler service.JobChangeHandler) (func(), error) {
	args := m.Called(ctx, userID, handler)
	if unsubscribe, ok := args.Get(0).(func()); ok {
		return unsubscribe, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishJobQueued(ctx context.Context, event *service.JobQueuedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}
