// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"shorts/internal/delivery/http/response"
	"shorts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the authentication callback and logout.
type AuthHandler struct {
	resolver usecase.SessionResolverUsecase
	jobs     usecase.JobSyncUsecase
	logger   *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(resolver usecase.SessionResolverUsecase, jobs usecase.JobSyncUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		resolver: resolver,
		jobs:     jobs,
		logger:   logger,
	}
}

// callbackInput carries the redirect fragment the provider appended to the
// callback URL. Fragments never reach the server on the wire, so the
// callback page posts it explicitly.
type callbackInput struct {
	Fragment string `json:"fragment"`
}

// Callback runs session resolution and answers with a 303 to the terminal
// navigation target. A hard reload falls out naturally: a redirect is
// always a full document navigation.
func (h *AuthHandler) Callback(c echo.Context) error {
	var input callbackInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid callback input")
	}

	output, err := h.resolver.Resolve(c.Request().Context(), input.Fragment)
	if err != nil {
		return errors.WithStack(err)
	}

	target := string(output.Target)
	if output.FailureMessage != "" {
		target += "?message=" + url.QueryEscape(output.FailureMessage)
	}

	return c.Redirect(http.StatusSeeOther, target)
}

// Logout terminates the session and sends the user to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	target, err := h.jobs.Logout(c.Request().Context())
	if err != nil {
		// The cached session is gone either way; the landing redirect stands.
		h.logger.Warn("Sign-out did not complete cleanly", slog.Any("error", err))
	}

	return c.Redirect(http.StatusSeeOther, string(target))
}
