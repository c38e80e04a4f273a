package entity

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a submitted job. The client only ever
// writes StatusPending; all later transitions are made by the external job
// processor, and this core renders whatever state it observes.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Presentation classifies a status for rendering purposes.
type Presentation string

const (
	PresentationNeutral   Presentation = "neutral"
	PresentationAttention Presentation = "attention"
	PresentationSuccess   Presentation = "success"
	PresentationError     Presentation = "error"
)

// Presentation maps a status to its presentation class. The mapping is a
// pure function and total: states this core does not recognize render as
// neutral rather than failing.
func (s JobStatus) Presentation() Presentation {
	switch s {
	case StatusProcessing:
		return PresentationAttention
	case StatusCompleted:
		return PresentationSuccess
	case StatusFailed:
		return PresentationError
	default:
		return PresentationNeutral
	}
}

// Job is a unit of requested background work. The store generates the id
// and creation timestamp at insert time; user id and video URL are immutable
// after creation, and status is mutated only by the external processor.
type Job struct {
	ID        uuid.UUID
	UserID    uuid.UUID // Owning user, foreign key into user_identities.
	VideoURL  string    // Caller-supplied source location.
	Status    JobStatus
	CreatedAt time.Time
}
