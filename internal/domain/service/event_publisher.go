package service

import (
	"context"
)

// JobQueuedEvent announces a freshly inserted job to the downstream
// processor via the message queue.
type JobQueuedEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	JobID     string `json:"job_id"`
	UserID    string `json:"user_id"`
	VideoURL  string `json:"video_url"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishJobQueued publishes a job-queued event for async processing.
	PublishJobQueued(ctx context.Context, event *JobQueuedEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
