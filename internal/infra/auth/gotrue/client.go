// Package gotrue implements the AuthProvider against a GoTrue-compatible
// identity service.
package gotrue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"shorts/config"
	"shorts/internal/domain/entity"
	"shorts/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client talks to the hosted identity service and keeps the single cached
// session for this process. Session state transitions are pushed to
// registered listeners.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger

	mu        sync.RWMutex
	session   *entity.Session
	nextID    uint64
	listeners map[uint64]service.SessionChangeHandler
}

// NewClient is the constructor for Client.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.AuthProvider, error) {
	if cfg.Provider == nil || cfg.Provider.URL == "" {
		return nil, errors.New("provider url must be provided")
	}

	return &Client{
		baseURL:   cfg.Provider.URL,
		apiKey:    cfg.Provider.APIKey,
		client:    &http.Client{},
		logger:    logger,
		listeners: make(map[uint64]service.SessionChangeHandler),
	}, nil
}

// EstablishSession validates the redirect artifacts against the provider's
// user endpoint and caches the resulting session. Listeners observe a
// SIGNED_IN transition on success.
func (c *Client) EstablishSession(ctx context.Context, accessToken, refreshToken string) (*entity.Session, error) {
	if accessToken == "" {
		return nil, errors.New("access token must be provided")
	}

	user, err := c.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Email:        user.Email,
	}

	c.setSession(session)
	c.notify(service.AuthEventSignedIn, session)

	c.logger.Info("Session established", slog.Any("user_id", session.UserID))

	return session, nil
}

// CurrentSession returns the cached session, or (nil, nil) when none is held.
func (c *Client) CurrentSession(_ context.Context) (*entity.Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session, nil
}

// OnSessionChange registers a listener for session transitions. The returned
// function removes it; calling it more than once is harmless.
func (c *Client) OnSessionChange(handler service.SessionChangeHandler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners[id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.listeners, id)
	}
}

// SignOut revokes the session with the provider and drops the cache. The
// cache is cleared even when revocation fails, so the local state never
// outlives a requested logout.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	var revokeErr error
	if session != nil {
		revokeErr = c.revoke(ctx, session.AccessToken)
	}

	c.setSession(nil)
	c.notify(service.AuthEventSignedOut, nil)

	if revokeErr != nil {
		return errors.Wrap(revokeErr, "failed to revoke session")
	}

	return nil
}

type providerUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// fetchUser resolves an access token to the user it belongs to. A non-200
// response means the provider rejected the token.
func (c *Client) fetchUser(ctx context.Context, accessToken string) (*providerUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user request")
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query provider user")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("provider rejected token with status %d: %s", resp.StatusCode, string(body))
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.Wrap(err, "failed to decode provider user")
	}

	return &user, nil
}

// revoke invalidates the token server side.
func (c *Client) revoke(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return errors.Wrap(err, "failed to create logout request")
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call logout endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return errors.Errorf("logout failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Client) setSession(session *entity.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
}

// notify invokes every registered listener with a snapshot taken under the
// read lock. Listeners run on the calling goroutine.
func (c *Client) notify(event service.AuthChangeEvent, session *entity.Session) {
	c.mu.RLock()
	handlers := make([]service.SessionChangeHandler, 0, len(c.listeners))
	for _, handler := range c.listeners {
		handlers = append(handlers, handler)
	}
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(event, session)
	}
}
