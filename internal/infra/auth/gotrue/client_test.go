package gotrue

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"shorts/config"
	"shorts/internal/domain/entity"
	"shorts/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient starts a fake provider and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Provider: &config.ProviderConfig{
			URL:    server.URL,
			APIKey: "anon-key",
		},
	}

	client, err := NewClient(cfg, testLogger())
	require.NoError(t, err)

	return client.(*Client)
}

func TestClient_EstablishSessionCachesAndNotifies(t *testing.T) {
	userID := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + userID.String() + `","email":"user@example.com"}`))
	}))

	var events []service.AuthChangeEvent
	unsubscribe := client.OnSessionChange(func(event service.AuthChangeEvent, _ *entity.Session) {
		events = append(events, event)
	})
	defer unsubscribe()

	session, err := client.EstablishSession(context.Background(), "abc123", "def456")

	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "user@example.com", session.Email)
	assert.Equal(t, "def456", session.RefreshToken)
	assert.Equal(t, []service.AuthChangeEvent{service.AuthEventSignedIn}, events)

	cached, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session, cached)
}

func TestClient_EstablishSessionRejectedToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"msg":"invalid token"}`, http.StatusUnauthorized)
	}))

	session, err := client.EstablishSession(context.Background(), "bad-token", "")

	require.Error(t, err)
	assert.Nil(t, session)
	assert.Contains(t, err.Error(), "status 401")

	cached, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached, "a rejected token must not populate the cache")
}

func TestClient_EstablishSessionEmptyToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("provider must not be called without a token")
	}))

	session, err := client.EstablishSession(context.Background(), "", "")

	require.Error(t, err)
	assert.Nil(t, session)
}

func TestClient_CurrentSessionEmptyCache(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	session, err := client.CurrentSession(context.Background())

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestClient_SignOutClearsCacheAndNotifies(t *testing.T) {
	userID := uuid.New()
	var logoutCalled bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"` + userID.String() + `"}`))
		case "/auth/v1/logout":
			logoutCalled = true
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	_, err := client.EstablishSession(context.Background(), "abc123", "def456")
	require.NoError(t, err)

	var events []service.AuthChangeEvent
	unsubscribe := client.OnSessionChange(func(event service.AuthChangeEvent, session *entity.Session) {
		events = append(events, event)
		assert.Nil(t, session)
	})
	defer unsubscribe()

	require.NoError(t, client.SignOut(context.Background()))

	assert.True(t, logoutCalled)
	assert.Equal(t, []service.AuthChangeEvent{service.AuthEventSignedOut}, events)

	cached, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestClient_SignOutClearsCacheEvenWhenRevocationFails(t *testing.T) {
	userID := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"` + userID.String() + `"}`))
		case "/auth/v1/logout":
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))

	_, err := client.EstablishSession(context.Background(), "abc123", "")
	require.NoError(t, err)

	err = client.SignOut(context.Background())
	require.Error(t, err)

	cached, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestClient_UnsubscribeStopsNotifications(t *testing.T) {
	userID := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + userID.String() + `"}`))
	}))

	var calls int
	unsubscribe := client.OnSessionChange(func(service.AuthChangeEvent, *entity.Session) { calls++ })

	_, err := client.EstablishSession(context.Background(), "abc123", "")
	require.NoError(t, err)
	unsubscribe()
	_, err = client.EstablishSession(context.Background(), "abc124", "")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestClient_MissingURL(t *testing.T) {
	client, err := NewClient(&config.Config{Provider: &config.ProviderConfig{}}, testLogger())

	assert.Error(t, err)
	assert.Nil(t, client)
}
