package repository

import (
	"context"
	"errors"

	"shorts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when a job record does not exist.
var ErrJobNotFound = errors.New("job not found")

// JobRepository persists job records. Records are created by this core and
// mutated only by the external job processor; this core never deletes them.
type JobRepository interface {
	// Create inserts a new job record. The store generates the id and
	// creation timestamp; both are written back onto the entity.
	Create(ctx context.Context, job *entity.Job) error

	// FindByUser retrieves every job owned by the user, ordered by creation
	// timestamp descending. No pagination: the dashboard loads the full list.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Job, error)
}
