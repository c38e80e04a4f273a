package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserIdentity is the persisted record of "user U has an active session
// whose refresh credential is R". There is at most one record per user id;
// conflicting writes are resolved last-write-wins by the store's upsert.
// The downstream job processor consumes the refresh credential to act on
// the user's behalf; this core only writes the record, never deletes it.
type UserIdentity struct {
	ID           uuid.UUID // Primary key, the identity provider's stable user id.
	Email        string
	RefreshToken string // Provider-issued long-lived credential.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
