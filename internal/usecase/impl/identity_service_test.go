package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"shorts/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIdentityService_RecordSession_UpsertsRefreshCredential(t *testing.T) {
	identities := new(mockUserIdentityRepository)
	svc := NewIdentityService(identities, testLogger())

	ctx := context.Background()
	userID := uuid.New()
	session := &entity.Session{
		AccessToken:  "abc123",
		RefreshToken: "r1",
		UserID:       userID,
		Email:        "u1@example.com",
	}

	identities.On("Upsert", ctx, mock.MatchedBy(func(identity *entity.UserIdentity) bool {
		return identity.ID == userID &&
			identity.Email == "u1@example.com" &&
			identity.RefreshToken == "r1"
	})).Return(nil).Once()

	require.NoError(t, svc.RecordSession(ctx, session))
	identities.AssertExpectations(t)
}

func TestIdentityService_RecordSession_SkipsWithoutRefreshToken(t *testing.T) {
	identities := new(mockUserIdentityRepository)
	svc := NewIdentityService(identities, testLogger())

	session := &entity.Session{
		AccessToken: "abc123",
		UserID:      uuid.New(),
		Email:       "u2@example.com",
	}

	require.NoError(t, svc.RecordSession(context.Background(), session))
	identities.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestIdentityService_RecordSession_LastWriteWinsArguments(t *testing.T) {
	identities := new(mockUserIdentityRepository)
	svc := NewIdentityService(identities, testLogger())

	ctx := context.Background()
	userID := uuid.New()

	var written []*entity.UserIdentity
	identities.On("Upsert", ctx, mock.AnythingOfType("*entity.UserIdentity")).
		Run(func(args mock.Arguments) {
			written = append(written, args.Get(1).(*entity.UserIdentity))
		}).
		Return(nil).Twice()

	first := &entity.Session{RefreshToken: "r1", UserID: userID, Email: "old@example.com"}
	second := &entity.Session{RefreshToken: "r2", UserID: userID, Email: "new@example.com"}

	require.NoError(t, svc.RecordSession(ctx, first))
	require.NoError(t, svc.RecordSession(ctx, second))

	// Both writes target the same key; the later one carries the fields that
	// must win the conflict.
	require.Len(t, written, 2)
	assert.Equal(t, written[0].ID, written[1].ID)
	assert.Equal(t, "new@example.com", written[1].Email)
	assert.Equal(t, "r2", written[1].RefreshToken)
}

func TestIdentityService_RecordSession_WrapsRepositoryError(t *testing.T) {
	identities := new(mockUserIdentityRepository)
	svc := NewIdentityService(identities, testLogger())

	repoErr := errors.New("connection reset")
	identities.On("Upsert", mock.Anything, mock.Anything).Return(repoErr).Once()

	err := svc.RecordSession(context.Background(), &entity.Session{
		RefreshToken: "r1",
		UserID:       uuid.New(),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, repoErr))
}

func TestIdentityService_RecordSession_NilSession(t *testing.T) {
	identities := new(mockUserIdentityRepository)
	svc := NewIdentityService(identities, testLogger())

	assert.Error(t, svc.RecordSession(context.Background(), nil))
}
