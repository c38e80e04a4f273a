// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"shorts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrIdentityNotFound is returned when no identity record exists for a user id.
var ErrIdentityNotFound = errors.New("user identity not found")

// UserIdentityRepository persists the per-user identity record the
// downstream job processor reads refresh credentials from.
type UserIdentityRepository interface {
	// Upsert inserts or updates the record keyed by user id, overwriting
	// email and refresh credential unconditionally (last write wins).
	Upsert(ctx context.Context, identity *entity.UserIdentity) error

	// FindByID retrieves the identity record for a user id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserIdentity, error)
}
