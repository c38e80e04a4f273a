package service

import (
	"context"

	"shorts/internal/domain/entity"

	"github.com/google/uuid"
)

// JobChangeKind tags the mutation a change-feed event describes.
type JobChangeKind string

const (
	JobChangeInsert JobChangeKind = "insert"
	JobChangeUpdate JobChangeKind = "update"
	JobChangeDelete JobChangeKind = "delete"
)

// JobChangeEvent notifies that a row in the job table changed. Beyond the
// owning user id there is no payload guarantee; consumers are expected to
// refetch rather than patch incrementally.
type JobChangeEvent struct {
	Kind   JobChangeKind    `json:"kind"`
	UserID uuid.UUID        `json:"user_id"`
	JobID  uuid.UUID        `json:"job_id,omitempty"`
	Status entity.JobStatus `json:"status,omitempty"`
}

// JobChangeHandler receives change events for a single subscribed user.
type JobChangeHandler func(event JobChangeEvent)

// JobChangeFeed delivers job-table change events filtered by owning user.
// An event for user A must never reach a subscription scoped to user B.
type JobChangeFeed interface {
	// Subscribe registers a handler for events owned by userID. The returned
	// function cancels the subscription; after it returns the handler is
	// never invoked again.
	Subscribe(ctx context.Context, userID uuid.UUID, handler JobChangeHandler) (unsubscribe func(), err error)
}

// JobChangeSink is the ingest side of the feed: transport adapters (the
// Pub/Sub push endpoint, tests) dispatch decoded events into it.
type JobChangeSink interface {
	Dispatch(ctx context.Context, event JobChangeEvent)
}
