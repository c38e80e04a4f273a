// Package handler contains the worker-side handlers for change-feed ingest.
package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"shorts/config"
	deliverycontext "shorts/internal/delivery/context"
	"shorts/internal/domain/constants"
	"shorts/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// FeedHandler ingests Pub/Sub push messages carrying job change events and
// dispatches them into the in-process feed.
type FeedHandler struct {
	verifyPushAuth bool
	pushAudience   string
	logger         *slog.Logger
	sink           service.JobChangeSink
}

// FeedHandlerParams holds dependencies for the FeedHandler
type FeedHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Sink   service.JobChangeSink
}

// NewFeedHandler creates a new Pub/Sub push handler
func NewFeedHandler(params FeedHandlerParams) *FeedHandler {
	// Push requests carry an OIDC token only on the managed transport, and
	// develop runs without one.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	var pushAudience string
	if params.Config.PubSub != nil {
		pushAudience = params.Config.PubSub.PushAudience
	}

	return &FeedHandler{
		verifyPushAuth: verifyPushAuth,
		pushAudience:   pushAudience,
		logger:         params.Logger,
		sink:           params.Sink,
	}
}

// HandlePush handles incoming Pub/Sub push messages. Malformed messages get
// a 4xx and are never retried; dispatch itself cannot fail, so everything
// decoded is acknowledged.
func (h *FeedHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.JobChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse change event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}
	if event.UserID == uuid.Nil {
		h.logger.Error("[Worker] Change event has no owning user",
			slog.String("message_id", pushMsg.Message.MessageID))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(c, &pushMsg)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Dispatching change event",
		slog.String("kind", string(event.Kind)),
		slog.Any("user_id", event.UserID),
		slog.Any("job_id", event.JobID),
	)

	h.sink.Dispatch(ctx, event)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers the message attribute, then the inbound header.
func (h *FeedHandler) extractRequestID(c echo.Context, pushMsg *PubSubMessage) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if requestID := deliverycontext.GetRequestID(c); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *FeedHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	audience := h.pushAudience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http" // For local development
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
