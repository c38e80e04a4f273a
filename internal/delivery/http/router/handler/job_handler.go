package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"shorts/internal/delivery/http/middleware"
	"shorts/internal/delivery/http/response"
	"shorts/internal/domain/entity"
	"shorts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// streamHeartbeatInterval keeps intermediate proxies from dropping an idle
// SSE connection.
const streamHeartbeatInterval = 30 * time.Second

// JobHandler holds dependencies for the dashboard job endpoints.
type JobHandler struct {
	jobs   usecase.JobSyncUsecase
	logger *slog.Logger
}

// NewJobHandler is the constructor for JobHandler, injected by Fx.
func NewJobHandler(jobs usecase.JobSyncUsecase, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// jobResponse is the wire shape of a job record.
type jobResponse struct {
	ID           uuid.UUID `json:"id"`
	VideoURL     string    `json:"video_url"`
	Status       string    `json:"status"`
	Presentation string    `json:"presentation"`
	CreatedAt    time.Time `json:"created_at"`
}

func toJobResponse(job *entity.Job) jobResponse {
	return jobResponse{
		ID:           job.ID,
		VideoURL:     job.VideoURL,
		Status:       string(job.Status),
		Presentation: string(job.Status.Presentation()),
		CreatedAt:    job.CreatedAt,
	}
}

func toJobResponses(jobs []*entity.Job) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobResponse(job))
	}

	return out
}

// callerID reads the authenticated user id set by the auth middleware.
func callerID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("caller identity missing from context")
	}

	return userID, nil
}

// List returns the caller's jobs, newest first.
func (h *JobHandler) List(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return response.Unauthorized(c, "SESSION_REQUIRED", "You must be signed in")
	}

	view, err := h.jobs.OpenForUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer view.Close()

	return response.Success(c, http.StatusOK, toJobResponses(view.Jobs()), "")
}

// Submit inserts a new pending job for the caller.
func (h *JobHandler) Submit(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return response.Unauthorized(c, "SESSION_REQUIRED", "You must be signed in")
	}

	var input usecase.SubmitJobInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid submission input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "A video URL is required")
	}
	input.UserID = userID

	job, err := h.jobs.Submit(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toJobResponse(job), "Job submitted")
}

// Stream pushes the caller's job list over SSE, re-sending the whole list
// whenever the change feed reports a mutation. The connection lives until
// the client goes away.
func (h *JobHandler) Stream(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return response.Unauthorized(c, "SESSION_REQUIRED", "You must be signed in")
	}

	ctx := c.Request().Context()
	view, err := h.jobs.OpenForUser(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}
	defer view.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	// Initial snapshot, then one event per coalesced refresh.
	if err := writeJobListEvent(res, view.Jobs()); err != nil {
		return errors.WithStack(err)
	}

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-view.Updates():
			if err := writeJobListEvent(res, view.Jobs()); err != nil {
				return errors.WithStack(err)
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return errors.WithStack(err)
			}
			res.Flush()
		}
	}
}

// writeJobListEvent writes one SSE event carrying the full list.
func writeJobListEvent(res *echo.Response, jobs []*entity.Job) error {
	payload, err := json.Marshal(toJobResponses(jobs))
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(res, "event: jobs\ndata: %s\n\n", payload); err != nil {
		return err
	}
	res.Flush()

	return nil
}
