package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shorts/config"
	"shorts/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records every dispatched event.
type captureSink struct {
	events []service.JobChangeEvent
}

func (s *captureSink) Dispatch(_ context.Context, event service.JobChangeEvent) {
	s.events = append(s.events, event)
}

func newTestFeedHandler(t *testing.T) (*FeedHandler, *captureSink) {
	t.Helper()

	sink := &captureSink{}
	handler := NewFeedHandler(FeedHandlerParams{
		Config: &config.Config{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sink:   sink,
	})

	return handler, sink
}

func pushBody(t *testing.T, event service.JobChangeEvent, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Subscription = "projects/local/subscriptions/job-changes-sub"
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = uuid.New().String()
	msg.Message.Attributes = attributes

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func performPush(t *testing.T, handler *FeedHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.HandlePush(e.NewContext(req, rec)))

	return rec
}

func TestFeedHandler_DispatchesDecodedEvent(t *testing.T) {
	handler, sink := newTestFeedHandler(t)
	userID := uuid.New()
	jobID := uuid.New()

	rec := performPush(t, handler, pushBody(t, service.JobChangeEvent{
		Kind:   service.JobChangeUpdate,
		UserID: userID,
		JobID:  jobID,
		Status: "processing",
	}, map[string]string{"request_id": "req-1"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sink.events, 1)
	assert.Equal(t, service.JobChangeUpdate, sink.events[0].Kind)
	assert.Equal(t, userID, sink.events[0].UserID)
	assert.Equal(t, jobID, sink.events[0].JobID)
}

func TestFeedHandler_MalformedBase64Rejected(t *testing.T) {
	handler, sink := newTestFeedHandler(t)

	body := `{"message":{"data":"not-base64!!","messageId":"m1"},"subscription":"s"}`
	rec := performPush(t, handler, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sink.events)
}

func TestFeedHandler_MalformedEventRejected(t *testing.T) {
	handler, sink := newTestFeedHandler(t)

	payload := base64.StdEncoding.EncodeToString([]byte("not json"))
	body := `{"message":{"data":"` + payload + `","messageId":"m1"},"subscription":"s"}`
	rec := performPush(t, handler, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sink.events)
}

func TestFeedHandler_EventWithoutOwnerRejected(t *testing.T) {
	handler, sink := newTestFeedHandler(t)

	rec := performPush(t, handler, pushBody(t, service.JobChangeEvent{
		Kind: service.JobChangeInsert,
	}, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sink.events)
}

func TestFeedHandler_NoAuthVerificationOutsideGoogleProvider(t *testing.T) {
	handler := NewFeedHandler(FeedHandlerParams{
		Config: &config.Config{
			PubSub: &config.PubSubConfig{Provider: "local"},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sink:   &captureSink{},
	})

	assert.False(t, handler.verifyPushAuth)
}
